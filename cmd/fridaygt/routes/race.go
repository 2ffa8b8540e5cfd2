package routes

import (
	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterRaceRoutes registers race routes including the run list reorder
func RegisterRaceRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewRaceHandler(c.RaceService)

	api.GET("/run-lists/:runListId/races", h.ListRaces) // GET /api/run-lists/{runListId}/races
	api.POST("/run-lists/:runListId/races", h.AddRace)  // POST /api/run-lists/{runListId}/races
	api.POST("/races/reorder", h.ReorderRaces)          // POST /api/races/reorder
	api.DELETE("/races/:raceId", h.DeleteRace)          // DELETE /api/races/{raceId}
}
