package middleware

import (
	"context"
	"strings"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// PrincipalKey is the echo context key for the authenticated caller
	PrincipalKey ContextKey = "principal"

	// UserIDHeader carries the caller's user id
	UserIDHeader = "X-User-ID"
)

// UserResolver loads the account behind a user id
type UserResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate resolves the X-User-ID header to an approved account and stores
// the resulting Principal in the echo context. Missing or unknown users get
// 401, pending accounts get 403.
//
// Accessing in handlers:
//
//	p, ok := middleware.GetPrincipal(c)
func Authenticate(users UserResolver, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
			if raw == "" {
				return ordering.Unauthenticated("X-User-ID header is required")
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				return ordering.Unauthenticated("X-User-ID is not a valid user id")
			}

			ctx := c.Request().Context()
			user, err := users.Resolve(ctx, id)
			if err != nil {
				if ordering.KindOf(err) == ordering.KindNotFound {
					return ordering.Unauthenticated("unknown user")
				}
				return err
			}
			if user.Status != models.StatusApproved {
				return ordering.Forbidden(ordering.ReasonAccountPending, "account is awaiting approval")
			}

			p := policy.Principal{ID: user.ID, Role: user.Role}
			c.Set(string(PrincipalKey), p)

			scoped := logger.FromContext(ctx, log).WithPrincipal(p.ID.String(), p.Role)
			c.SetRequest(c.Request().WithContext(logger.IntoContext(ctx, scoped)))

			return next(c)
		}
	}
}

// GetPrincipal retrieves the authenticated caller from the echo context
func GetPrincipal(c echo.Context) (policy.Principal, bool) {
	p, ok := c.Get(string(PrincipalKey)).(policy.Principal)
	return p, ok
}

// RequirePrincipal returns the caller or an AuthenticationRequired error
func RequirePrincipal(c echo.Context) (policy.Principal, error) {
	p, ok := GetPrincipal(c)
	if !ok {
		return policy.Principal{}, ordering.Unauthenticated("authentication required")
	}
	return p, nil
}

// UserKey returns the rate limit key for the request: the raw X-User-ID header
func UserKey(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
}
