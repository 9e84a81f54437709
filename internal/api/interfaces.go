// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import "github.com/labstack/echo/v4"

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
	HandleClock(c echo.Context) error
}

// DispatchHandler handles the dispatch form and compute-and-log action
type DispatchHandler interface {
	HandleGetForm(c echo.Context) error
	HandleAdjustDistance(c echo.Context) error
	HandleDispatch(c echo.Context) error
}

// TableHandler handles navigator tables and spot edits
type TableHandler interface {
	HandleListNavigators(c echo.Context) error
	HandleGetTable(c echo.Context) error
	HandleGetTableMsgpack(c echo.Context) error
	HandleIncrementSpot(c echo.Context) error
	HandleResetSpot(c echo.Context) error
	HandleClearTables(c echo.Context) error
}

// LiveHandler streams table refreshes
type LiveHandler interface {
	HandleTableFeed(c echo.Context) error
}
