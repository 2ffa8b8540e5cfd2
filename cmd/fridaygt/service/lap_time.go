package service

import (
	"context"
	"strings"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
)

const leaderboardSize = 100

// LapTimeService records laps and ranks drivers per track
type LapTimeService struct {
	repo LapTimeRepository
	log  *logger.Logger
}

// NewLapTimeService creates a new lap time service
func NewLapTimeService(repo LapTimeRepository, log *logger.Logger) *LapTimeService {
	return &LapTimeService{repo: repo, log: log}
}

// RecordLap stores a lap for the caller
func (s *LapTimeService) RecordLap(ctx context.Context, p policy.Principal, req models.RecordLapRequest) (*models.LapTime, error) {
	lap, err := s.repo.Record(ctx, p.ID, normalizeTrack(req.Track), strings.TrimSpace(req.Car), req.LapMs)
	if err != nil {
		return nil, err
	}

	s.log.Debug("lap recorded", "user_id", p.ID, "track", lap.Track, "lap_ms", lap.LapMs)
	return lap, nil
}

// Leaderboard returns the best lap per driver on track
func (s *LapTimeService) Leaderboard(ctx context.Context, track string) ([]models.LeaderboardEntry, error) {
	track = normalizeTrack(track)
	if track == "" {
		return nil, ordering.Invalid(ordering.ReasonInvalidBody, "track is required")
	}
	return s.repo.Leaderboard(ctx, track, leaderboardSize)
}

func normalizeTrack(track string) string {
	return strings.ToLower(strings.TrimSpace(track))
}
