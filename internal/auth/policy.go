package auth

import "github.com/spec-kit/command-center/internal/domain"

// The authorization policy is a set of pure predicates over role and
// ownership fields. No I/O happens here.

// CanEditIssue permits the original creator or an elevated role.
func CanEditIssue(createdBy string, actor *Principal) bool {
	if actor == nil {
		return false
	}
	return actor.ID == createdBy || actor.Role.Elevated()
}

// CanChangeStatus permits engineers and elevated roles.
func CanChangeStatus(actor *Principal) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleEngineer || actor.Role.Elevated()
}

// CanAssign permits elevated roles only.
func CanAssign(actor *Principal) bool {
	return actor != nil && actor.Role.Elevated()
}

// CanModerateComment permits the comment author or an elevated role.
func CanModerateComment(authorID string, actor *Principal) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.Role.Elevated()
}
