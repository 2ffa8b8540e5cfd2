package routes

import (
	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterMemberRoutes registers race roster routes
func RegisterMemberRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewMemberHandler(c.RosterService)

	members := api.Group("/races/:raceId/members")
	{
		members.GET("", h.ListMembers)               // GET /api/races/{raceId}/members
		members.POST("", h.AddMember)                // POST /api/races/{raceId}/members
		members.PATCH("/reorder", h.ReorderMembers)  // PATCH /api/races/{raceId}/members/reorder
		members.DELETE("/:memberId", h.RemoveMember) // DELETE /api/races/{raceId}/members/{memberId}
	}
}
