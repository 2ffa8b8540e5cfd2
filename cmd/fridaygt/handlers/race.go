package handlers

import (
	"net/http"

	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/labstack/echo/v4"
)

// RaceHandler handles race requests
type RaceHandler struct {
	races RaceService
}

// NewRaceHandler creates a new race handler
func NewRaceHandler(races RaceService) *RaceHandler {
	return &RaceHandler{races: races}
}

// ListRaces lists the races of a run list in order
// GET /api/run-lists/:runListId/races
func (h *RaceHandler) ListRaces(c echo.Context) error {
	runListID, err := pathID(c, "runListId")
	if err != nil {
		return err
	}

	races, err := h.races.ListRaces(c.Request().Context(), runListID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"races": races,
	})
}

// AddRace appends a race to a run list
// POST /api/run-lists/:runListId/races
func (h *RaceHandler) AddRace(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}
	runListID, err := pathID(c, "runListId")
	if err != nil {
		return err
	}

	var req models.CreateRaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	race, err := h.races.AddRace(c.Request().Context(), p, runListID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, race)
}

// ReorderRaces applies a full race order
// POST /api/races/reorder
func (h *RaceHandler) ReorderRaces(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}

	var req models.ReorderRacesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	races, err := h.races.ReorderRaces(c.Request().Context(), p, req.RunListID, req.RaceIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ReorderRacesResponse{
		Success: true,
		Races:   races,
	})
}

// DeleteRace removes a race
// DELETE /api/races/:raceId
func (h *RaceHandler) DeleteRace(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}
	raceID, err := pathID(c, "raceId")
	if err != nil {
		return err
	}

	if err := h.races.DeleteRace(c.Request().Context(), p, raceID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
