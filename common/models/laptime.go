package models

import (
	"time"

	"github.com/google/uuid"
)

// LapTime is a recorded lap
// Maps to: lap_time table
type LapTime struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Track      string    `json:"track"`
	Car        string    `json:"car"`
	LapMs      int       `json:"lapMs"`
	RecordedAt time.Time `json:"recordedAt"`
}

// RecordLapRequest records a lap for the caller
type RecordLapRequest struct {
	Track string `json:"track" validate:"required,max=80"`
	Car   string `json:"car" validate:"required,max=80"`
	LapMs int    `json:"lapMs" validate:"required,min=1"`
}

// LeaderboardEntry is a driver's best lap on a track
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	UserID     uuid.UUID `json:"userId"`
	Gamertag   string    `json:"gamertag"`
	Car        string    `json:"car"`
	LapMs      int       `json:"lapMs"`
	RecordedAt time.Time `json:"recordedAt"`
}
