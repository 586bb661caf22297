package service

import (
	"context"

	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/repository"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// EngineerWorkload pairs an engineer with their open workload count.
type EngineerWorkload struct {
	User     domain.User
	Workload int
}

// UserService serves account listings and workload summaries.
type UserService struct {
	users  repository.UserRepository
	issues repository.IssueRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, issues repository.IssueRepository) *UserService {
	return &UserService{users: users, issues: issues}
}

// List returns accounts, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role *domain.UserRole) ([]domain.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{Role: role})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListEngineers returns all engineers with their current workload: the
// count of assigned issues still open or in progress.
func (s *UserService) ListEngineers(ctx context.Context) ([]EngineerWorkload, error) {
	role := domain.RoleEngineer
	engineers, err := s.users.List(ctx, repository.UserFilter{Role: &role})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	active := []domain.IssueStatus{domain.IssueStatusOpen, domain.IssueStatusInProgress}
	result := make([]EngineerWorkload, 0, len(engineers))
	for _, engineer := range engineers {
		workload, err := s.issues.CountAssigned(ctx, engineer.ID, active)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		result = append(result, EngineerWorkload{User: engineer, Workload: workload})
	}
	return result, nil
}
