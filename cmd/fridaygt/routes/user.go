package routes

import (
	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterUserRoutes registers registration, profile and approval routes
func RegisterUserRoutes(public, api *echo.Group, c *container.Container) {
	h := handlers.NewUserHandler(c.UserService)

	public.POST("/users", h.Register)             // POST /api/users
	api.GET("/users/me", h.Me)                    // GET /api/users/me
	api.POST("/users/:userId/approve", h.Approve) // POST /api/users/{userId}/approve
}
