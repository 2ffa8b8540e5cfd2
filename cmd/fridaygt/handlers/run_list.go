package handlers

import (
	"net/http"

	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/labstack/echo/v4"
)

// RunListHandler handles run list requests
type RunListHandler struct {
	runLists RunListService
}

// NewRunListHandler creates a new run list handler
func NewRunListHandler(runLists RunListService) *RunListHandler {
	return &RunListHandler{runLists: runLists}
}

// CreateRunList schedules a session
// POST /api/run-lists
func (h *RunListHandler) CreateRunList(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}

	var req models.CreateRunListRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rl, err := h.runLists.CreateRunList(c.Request().Context(), p, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rl)
}

// ListRunLists lists recent sessions
// GET /api/run-lists
func (h *RunListHandler) ListRunLists(c echo.Context) error {
	runLists, err := h.runLists.ListRunLists(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"runLists": runLists,
	})
}
