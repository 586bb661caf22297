package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/command-center/internal/domain"
)

func principal(id string, role domain.UserRole) *Principal {
	return &Principal{ID: id, Role: role}
}

func TestCanEditIssue(t *testing.T) {
	creator := "user-1"

	assert.True(t, CanEditIssue(creator, principal("user-1", domain.RoleRanger)))
	assert.False(t, CanEditIssue(creator, principal("user-2", domain.RoleRanger)))
	assert.False(t, CanEditIssue(creator, principal("user-2", domain.RoleEngineer)))
	assert.True(t, CanEditIssue(creator, principal("user-2", domain.RoleAdmin)))
	assert.True(t, CanEditIssue(creator, principal("user-2", domain.RoleSuperAdmin)))
	assert.False(t, CanEditIssue(creator, nil))
}

func TestCanChangeStatus(t *testing.T) {
	assert.False(t, CanChangeStatus(principal("u", domain.RoleRanger)))
	assert.True(t, CanChangeStatus(principal("u", domain.RoleEngineer)))
	assert.True(t, CanChangeStatus(principal("u", domain.RoleAdmin)))
	assert.True(t, CanChangeStatus(principal("u", domain.RoleSuperAdmin)))
	assert.False(t, CanChangeStatus(nil))
}

func TestCanAssign(t *testing.T) {
	assert.False(t, CanAssign(principal("u", domain.RoleRanger)))
	assert.False(t, CanAssign(principal("u", domain.RoleEngineer)))
	assert.True(t, CanAssign(principal("u", domain.RoleAdmin)))
	assert.True(t, CanAssign(principal("u", domain.RoleSuperAdmin)))
	assert.False(t, CanAssign(nil))
}

func TestCanModerateComment(t *testing.T) {
	author := "user-1"

	assert.True(t, CanModerateComment(author, principal("user-1", domain.RoleRanger)))
	assert.False(t, CanModerateComment(author, principal("user-2", domain.RoleEngineer)))
	assert.True(t, CanModerateComment(author, principal("user-2", domain.RoleAdmin)))
	assert.False(t, CanModerateComment(author, nil))
}
