package service

import (
	"context"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/policy"
)

const runListPageSize = 50

// RunListService handles run list operations
type RunListService struct {
	repo   RunListRepository
	policy *policy.Engine
	log    *logger.Logger
}

// NewRunListService creates a new run list service
func NewRunListService(repo RunListRepository, engine *policy.Engine, log *logger.Logger) *RunListService {
	return &RunListService{
		repo:   repo,
		policy: engine,
		log:    log,
	}
}

// CreateRunList schedules a new session
func (s *RunListService) CreateRunList(ctx context.Context, p policy.Principal, req models.CreateRunListRequest) (*models.RunList, error) {
	if err := s.policy.Authorize(policy.Administer, p); err != nil {
		return nil, err
	}

	rl, err := s.repo.Create(ctx, req.Name, req.ScheduledFor, p.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("run list created", "run_list_id", rl.ID, "scheduled_for", rl.ScheduledFor)
	return rl, nil
}

// ListRunLists returns the most recent run lists
func (s *RunListService) ListRunLists(ctx context.Context) ([]models.RunList, error) {
	return s.repo.List(ctx, runListPageSize)
}
