package handlers

import (
	"net/http"

	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/labstack/echo/v4"
)

// UserHandler handles registration and approval
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a pending account
// POST /api/users
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Me returns the calling user
// GET /api/users/me
func (h *UserHandler) Me(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.Resolve(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Approve approves a pending account
// POST /api/users/:userId/approve
func (h *UserHandler) Approve(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	user, err := h.users.Approve(c.Request().Context(), p, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
