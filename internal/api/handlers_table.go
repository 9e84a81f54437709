// handlers_table.go - Navigator table and spot handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pakalnivut/backend/internal/dispatch"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/logging"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/table"
	"github.com/vmihailenco/msgpack/v5"
)

// TableHandlerImpl implements TableHandler
type TableHandlerImpl struct {
	repo      dispatchlog.Repository
	presenter *table.Presenter
	svc       *dispatch.Service
	log       *logging.Logger
}

// NewTableHandler creates a new table handler
func NewTableHandler(repo dispatchlog.Repository, presenter *table.Presenter, svc *dispatch.Service, log *logging.Logger) TableHandler {
	return &TableHandlerImpl{repo: repo, presenter: presenter, svc: svc, log: log}
}

// navigatorParam reads the :nav path parameter.
func navigatorParam(c echo.Context) (models.NavigatorID, error) {
	raw := c.Param("nav")
	nav, err := models.ParseNavigatorID(raw)
	if err != nil {
		return 0, NewNotFoundError("navigator", raw)
	}
	return nav, nil
}

// sortState reads the sort and dir query parameters.
func sortState(c echo.Context) (table.State, error) {
	state, err := table.ParseState(c.QueryParam("sort"), c.QueryParam("dir"))
	if err != nil {
		return table.State{}, NewBadRequestError("invalid sort", err)
	}
	return state, nil
}

func (h *TableHandlerImpl) view(c echo.Context) (table.View, error) {
	nav, err := navigatorParam(c)
	if err != nil {
		return table.View{}, err
	}
	state, err := sortState(c)
	if err != nil {
		return table.View{}, err
	}
	return h.presenter.View(nav, state), nil
}

// HandleListNavigators returns entry counts for both navigators
func (h *TableHandlerImpl) HandleListNavigators(c echo.Context) error {
	return c.JSON(http.StatusOK, h.repo.Counts())
}

// HandleGetTable returns a navigator's table sorted per the query
func (h *TableHandlerImpl) HandleGetTable(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v.Model())
}

// HandleGetTableMsgpack returns the same view encoded as msgpack
func (h *TableHandlerImpl) HandleGetTableMsgpack(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(v.Model())
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleIncrementSpot adds a spot to the row at :row of the sorted view
func (h *TableHandlerImpl) HandleIncrementSpot(c echo.Context) error {
	return h.editSpot(c, h.presenter.IncrementSpot)
}

// HandleResetSpot zeroes the spots of the row at :row of the sorted view
func (h *TableHandlerImpl) HandleResetSpot(c echo.Context) error {
	return h.editSpot(c, h.presenter.ResetSpot)
}

func (h *TableHandlerImpl) editSpot(c echo.Context, edit func(models.NavigatorID, table.State, int) (table.View, error)) error {
	nav, err := navigatorParam(c)
	if err != nil {
		return err
	}
	state, err := sortState(c)
	if err != nil {
		return err
	}
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return NewBadRequestError("row must be an integer", err)
	}

	v, err := edit(nav, state, row)
	if err != nil {
		return fromDomainError("failed to update spots", err)
	}
	return c.JSON(http.StatusOK, v.Model())
}

// HandleClearTables erases both navigators' tables
func (h *TableHandlerImpl) HandleClearTables(c echo.Context) error {
	if err := h.svc.ClearAll(); err != nil {
		return fromDomainError("failed to clear tables", err)
	}
	h.log.Info("tables cleared via API", "remote", c.RealIP())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cleared": true,
		"form":    h.svc.Form(),
	})
}
