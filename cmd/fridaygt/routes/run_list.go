package routes

import (
	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterRunListRoutes registers run list routes
func RegisterRunListRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewRunListHandler(c.RunListService)

	api.POST("/run-lists", h.CreateRunList) // POST /api/run-lists
	api.GET("/run-lists", h.ListRunLists)   // GET /api/run-lists
}
