// routes.go - Route registration helpers
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pakalnivut/backend/internal/dispatch"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/logging"
	"github.com/pakalnivut/backend/internal/table"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Repo          dispatchlog.Repository
	Service       *dispatch.Service
	Now           func() time.Time
	Version       string
	ClockInterval time.Duration
	GapInterval   time.Duration
	Logger        *logging.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Dispatch DispatchHandler
	Table    TableHandler
	Live     LiveHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	log := deps.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	log = log.WithComponent("api")

	presenter := table.NewPresenter(deps.Repo, deps.Now)
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Now),
		Dispatch: NewDispatchHandler(deps.Service, log),
		Table:    NewTableHandler(deps.Repo, presenter, deps.Service, log),
		Live:     NewWebSocketHandler(presenter, deps.Now, deps.ClockInterval, deps.GapInterval, log),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/clock", handlers.Health.HandleClock)

	// Dispatch form
	apiGroup.GET("/form", handlers.Dispatch.HandleGetForm)
	apiGroup.POST("/form/distance", handlers.Dispatch.HandleAdjustDistance)
	apiGroup.POST("/dispatch", handlers.Dispatch.HandleDispatch)

	// Navigator tables
	apiGroup.GET("/navigators", handlers.Table.HandleListNavigators)
	navGroup := apiGroup.Group("/navigators/:nav")
	navGroup.GET("/table", handlers.Table.HandleGetTable)
	navGroup.GET("/table/msgpack", handlers.Table.HandleGetTableMsgpack)
	navGroup.POST("/spots/:row/increment", handlers.Table.HandleIncrementSpot)
	navGroup.POST("/spots/:row/reset", handlers.Table.HandleResetSpot)
	apiGroup.DELETE("/tables", handlers.Table.HandleClearTables)

	// Live feed
	apiGroup.GET("/ws/table", handlers.Live.HandleTableFeed)
}

// MiddlewareOptions configures SetupMiddleware
type MiddlewareOptions struct {
	RequestLogging bool
	Timeout        time.Duration
	BodyLimit      string
	AllowOrigins   []string
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !opts.RequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" ||
				path == "/api/clock" ||
				!strings.HasPrefix(path, "/api/")
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if opts.Timeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: opts.Timeout,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
			},
			ErrorMessage: "Request timeout",
		}))
	}

	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	if len(opts.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: opts.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}
