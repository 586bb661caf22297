package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/command-center/internal/domain"
)

func TestListEngineersWorkload(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	issues := newFakeIssueRepo()
	svc := NewUserService(users, issues)

	engineer := &domain.User{Name: "Eli", Email: "eli@example.com", Role: domain.RoleEngineer}
	require.NoError(t, users.Create(ctx, engineer))
	admin := &domain.User{Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin))

	addIssue := func(status domain.IssueStatus, assignee *string) {
		issue := &domain.Issue{
			Title:       "t",
			Description: "d",
			Category:    "c",
			Priority:    domain.IssuePriorityMedium,
			Status:      status,
			CreatedBy:   admin.ID,
			AssignedTo:  assignee,
		}
		require.NoError(t, issues.Create(ctx, issue))
	}
	addIssue(domain.IssueStatusOpen, &engineer.ID)
	addIssue(domain.IssueStatusInProgress, &engineer.ID)
	// Resolved and closed work does not count toward workload.
	addIssue(domain.IssueStatusResolved, &engineer.ID)
	addIssue(domain.IssueStatusOpen, nil)

	workloads, err := svc.ListEngineers(ctx)
	require.NoError(t, err)
	require.Len(t, workloads, 1)
	assert.Equal(t, engineer.ID, workloads[0].User.ID)
	assert.Equal(t, 2, workloads[0].Workload)
}

func TestListUsersByRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := NewUserService(users, newFakeIssueRepo())

	require.NoError(t, users.Create(ctx, &domain.User{Name: "Eli", Email: "e@example.com", Role: domain.RoleEngineer}))
	require.NoError(t, users.Create(ctx, &domain.User{Name: "Rae", Email: "r@example.com", Role: domain.RoleRanger}))

	role := domain.RoleRanger
	rangers, err := svc.List(ctx, &role)
	require.NoError(t, err)
	require.Len(t, rangers, 1)
	assert.Equal(t, domain.RoleRanger, rangers[0].Role)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
