package service

import (
	"context"
	"strings"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
)

// UserService handles registration and approval
type UserService struct {
	repo   UserRepository
	policy *policy.Engine
	log    *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository, engine *policy.Engine, log *logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		policy: engine,
		log:    log,
	}
}

// Register creates a pending account
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	user, err := s.repo.Create(ctx, strings.TrimSpace(req.Gamertag))
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "gamertag", user.Gamertag, "status", user.Status)
	return user, nil
}

// Resolve loads the user behind an X-User-ID header
func (s *UserService) Resolve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.Get(ctx, id)
}

// Approve lets an admin approve a pending account
func (s *UserService) Approve(ctx context.Context, p policy.Principal, userID uuid.UUID) (*models.User, error) {
	if err := s.policy.Authorize(policy.Administer, p); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.StatusApproved {
		return current, nil
	}

	user, err := s.repo.Approve(ctx, userID, p.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user approved", "user_id", user.ID, "approved_by", p.ID)
	return user, nil
}

// EnsureApproved returns an AuthorizationDenied error for pending accounts
func EnsureApproved(user *models.User) error {
	if user.Status != models.StatusApproved {
		return ordering.Forbidden(ordering.ReasonAccountPending, "account is awaiting approval")
	}
	return nil
}
