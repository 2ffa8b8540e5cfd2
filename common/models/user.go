package models

import (
	"time"

	"github.com/google/uuid"
)

// Account status
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// User is a community member
// Maps to: app_user table
type User struct {
	ID         uuid.UUID  `json:"id"`
	Gamertag   string     `json:"gamertag"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	ApprovedBy *uuid.UUID `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// RegisterUserRequest creates a pending account
type RegisterUserRequest struct {
	Gamertag string `json:"gamertag" validate:"required,min=3,max=32"`
}
