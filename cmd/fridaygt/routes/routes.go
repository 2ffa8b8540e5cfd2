package routes

import (
	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	commonmw "github.com/fridaygt/fridaygt/common/middleware"
	"github.com/labstack/echo/v4"
)

// Register mounts every API route. Registration is public; everything else
// under /api requires an approved account.
func Register(e *echo.Echo, c *container.Container) {
	components := c.Components
	public := e.Group("/api")

	protected := []echo.MiddlewareFunc{mw.Authenticate(c.UserService, components.Logger)}
	if components.Limiter != nil && components.Config.RateLimit.Enabled {
		protected = append(protected, commonmw.UserRateLimit(
			components.Limiter,
			mw.UserKey,
			components.Config.RateLimit.UserLimit,
			components.Config.RateLimit.WindowSeconds,
		))
	}
	api := e.Group("/api", protected...)

	RegisterUserRoutes(public, api, c)
	RegisterRunListRoutes(api, c)
	RegisterRaceRoutes(api, c)
	RegisterMemberRoutes(api, c)
	RegisterLapTimeRoutes(api, c)
}
