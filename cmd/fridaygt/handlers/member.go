package handlers

import (
	"net/http"

	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/labstack/echo/v4"
)

// MemberHandler handles race roster requests
type MemberHandler struct {
	roster RosterService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(roster RosterService) *MemberHandler {
	return &MemberHandler{roster: roster}
}

// ListMembers returns the roster in order
// GET /api/races/:raceId/members
func (h *MemberHandler) ListMembers(c echo.Context) error {
	raceID, err := pathID(c, "raceId")
	if err != nil {
		return err
	}

	members, err := h.roster.ListMembers(c.Request().Context(), raceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"members": members,
	})
}

// AddMember enters a driver in the race
// POST /api/races/:raceId/members
func (h *MemberHandler) AddMember(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}
	raceID, err := pathID(c, "raceId")
	if err != nil {
		return err
	}

	var req models.AddMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	userID, err := bodyID("userId", req.UserID)
	if err != nil {
		return err
	}

	members, err := h.roster.AddMember(c.Request().Context(), p, raceID, userID, req.Tyre)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"members": members,
	})
}

// RemoveMember removes a driver from the race
// DELETE /api/races/:raceId/members/:memberId
func (h *MemberHandler) RemoveMember(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}
	raceID, err := pathID(c, "raceId")
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "memberId")
	if err != nil {
		return err
	}

	members, err := h.roster.RemoveMember(c.Request().Context(), p, raceID, memberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"members": members,
	})
}

// ReorderMembers applies a full roster order
// PATCH /api/races/:raceId/members/reorder
func (h *MemberHandler) ReorderMembers(c echo.Context) error {
	p, err := mw.RequirePrincipal(c)
	if err != nil {
		return err
	}
	raceID, err := pathID(c, "raceId")
	if err != nil {
		return err
	}

	var req models.ReorderMembersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	members, err := h.roster.ReorderMembers(c.Request().Context(), p, raceID, req.MemberIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ReorderMembersResponse{
		Success: true,
		Members: members,
	})
}
