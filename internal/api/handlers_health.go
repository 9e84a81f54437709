// handlers_health.go - Health check and clock handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	now     func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, now func() time.Time) HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandlerImpl{
		version: version,
		now:     now,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleClock returns the server's wall-clock time of day
func (h *HealthHandlerImpl) HandleClock(c echo.Context) error {
	now := h.now()
	return c.JSON(http.StatusOK, map[string]string{
		"time":  now.Format("15:04:05"),
		"clock": now.Format("15:04"),
	})
}
