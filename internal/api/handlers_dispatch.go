// handlers_dispatch.go - Dispatch form and compute-and-log handlers
package api

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pakalnivut/backend/internal/dispatch"
	"github.com/pakalnivut/backend/internal/logging"
)

// DispatchHandlerImpl implements DispatchHandler
type DispatchHandlerImpl struct {
	svc *dispatch.Service
	log *logging.Logger
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(svc *dispatch.Service, log *logging.Logger) DispatchHandler {
	return &DispatchHandlerImpl{svc: svc, log: log}
}

// HandleGetForm returns the values to pre-fill the dispatch form with
func (h *DispatchHandlerImpl) HandleGetForm(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Form())
}

type adjustDistanceRequest struct {
	Value *float64 `json:"value"`
	Delta float64  `json:"delta"`
}

// HandleAdjustDistance steps the distance field by delta
func (h *DispatchHandlerImpl) HandleAdjustDistance(c echo.Context) error {
	var req adjustDistanceRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	value := math.NaN()
	if req.Value != nil {
		value = *req.Value
	}
	return c.JSON(http.StatusOK, map[string]float64{
		"distanceKm": h.svc.AdjustDistance(value, req.Delta),
	})
}

// HandleDispatch validates the input, computes the arrival and logs the
// entry under the selected navigator
func (h *DispatchHandlerImpl) HandleDispatch(c echo.Context) error {
	var in dispatch.Input
	if err := c.Bind(&in); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	entry, err := h.svc.Log(in)
	if err != nil {
		return fromDomainError("failed to log dispatch", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"entry": entry,
		"form":  h.svc.Form(),
	})
}
