package handlers

import (
	"net/http"

	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/labstack/echo/v4"
)

// LapTimeHandler handles lap and leaderboard requests
type LapTimeHandler struct {
	laps LapTimeService
}

// NewLapTimeHandler creates a new lap time handler
func NewLapTimeHandler(laps LapTimeService) *LapTimeHandler {
	return &LapTimeHandler{laps: laps}
}

// RecordLap records a lap for the caller
// POST /api/lap-times
func (h *LapTimeHandler) RecordLap(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}

	var req models.RecordLapRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	lap, err := h.laps.RecordLap(c.Request().Context(), p, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lap)
}

// Leaderboard ranks drivers by best lap on a track
// GET /api/leaderboards/:track
func (h *LapTimeHandler) Leaderboard(c echo.Context) error {
	entries, err := h.laps.Leaderboard(c.Request().Context(), c.Param("track"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"track":   c.Param("track"),
		"entries": entries,
	})
}
