package routes

import (
	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterLapTimeRoutes registers lap recording and leaderboard routes
func RegisterLapTimeRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewLapTimeHandler(c.LapTimeService)

	api.POST("/lap-times", h.RecordLap)            // POST /api/lap-times
	api.GET("/leaderboards/:track", h.Leaderboard) // GET /api/leaderboards/{track}
}
