package models

import (
	"time"

	"github.com/google/uuid"
)

// RunList is one scheduled session holding an ordered list of races
// Maps to: run_list table
type RunList struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ScheduledFor string    `json:"scheduledFor"`
	CreatedBy    uuid.UUID `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	RaceCount    int       `json:"raceCount"`
}

// Race is an item of a run list
// Maps to: race table
type Race struct {
	ID                uuid.UUID  `json:"id"`
	RunListID         uuid.UUID  `json:"runListId"`
	Track             string     `json:"track"`
	Car               string     `json:"car"`
	Laps              int        `json:"laps"`
	Order             int        `json:"order"`
	MemberCount       int        `json:"memberCount"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	UpdatedBy         *uuid.UUID `json:"updatedBy,omitempty"`
	UpdatedByGamertag *string    `json:"updatedByGamertag,omitempty"`
}

// Member is a driver entered in a race, joined with display data
// Maps to: race_member table
type Member struct {
	ID                uuid.UUID  `json:"id"`
	RaceID            uuid.UUID  `json:"raceId"`
	UserID            uuid.UUID  `json:"userId"`
	Gamertag          string     `json:"gamertag"`
	Tyre              string     `json:"tyre"`
	Order             int        `json:"order"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	UpdatedBy         *uuid.UUID `json:"updatedBy,omitempty"`
	UpdatedByGamertag *string    `json:"updatedByGamertag,omitempty"`
}

// CreateRunListRequest schedules a session
type CreateRunListRequest struct {
	Name         string `json:"name" validate:"required,max=80"`
	ScheduledFor string `json:"scheduledFor" validate:"required,datetime=2006-01-02"`
}

// CreateRaceRequest appends a race to a run list
type CreateRaceRequest struct {
	Track string `json:"track" validate:"required,max=80"`
	Car   string `json:"car" validate:"required,max=80"`
	Laps  int    `json:"laps" validate:"omitempty,min=1,max=200"`
}

// AddMemberRequest appends a driver to a race
type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Tyre   string `json:"tyre" validate:"max=40"`
}

// ReorderMembersRequest names every member of the race in the desired order
type ReorderMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

// ReorderMembersResponse carries the canonical roster after a reorder
type ReorderMembersResponse struct {
	Success bool     `json:"success"`
	Members []Member `json:"members"`
}

// ReorderRacesRequest names every race of the run list in the desired order.
// RunListID may be omitted; the parent is then taken from the races.
type ReorderRacesRequest struct {
	RaceIDs   []string `json:"raceIds"`
	RunListID string   `json:"runListId,omitempty"`
}

// ReorderRacesResponse carries the canonical run list after a reorder
type ReorderRacesResponse struct {
	Success bool   `json:"success"`
	Races   []Race `json:"races"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
