package dto

import (
	"time"

	"github.com/spec-kit/command-center/internal/domain"
)

// UserRefResponse is the populated reference form of a user.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Priority    domain.IssuePriority `json:"priority"`
	Facility    *string              `json:"facility"`
	SLADeadline *time.Time           `json:"slaDeadline"`
}

// UpdateIssueRequest payload for partial edits; nil fields are untouched.
type UpdateIssueRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Category    *string               `json:"category"`
	Priority    *domain.IssuePriority `json:"priority"`
	Facility    *string               `json:"facility"`
	SLADeadline *time.Time            `json:"slaDeadline"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IssueStatus `json:"status"`
}

// AssignRequest payload. A null assignedTo unassigns.
type AssignRequest struct {
	AssignedTo *string `json:"assignedTo"`
}

// BulkUpdateRequest payload.
type BulkUpdateRequest struct {
	IssueIDs []string       `json:"issueIds"`
	Updates  map[string]any `json:"updates"`
}

// IssueResponse is the full issue representation.
type IssueResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Priority    domain.IssuePriority `json:"priority"`
	Status      domain.IssueStatus   `json:"status"`
	Facility    *string              `json:"facility,omitempty"`
	CreatedBy   *UserRefResponse     `json:"createdBy"`
	AssignedTo  *UserRefResponse     `json:"assignedTo"`
	SLADeadline *time.Time           `json:"slaDeadline"`
	ResolvedAt  *time.Time           `json:"resolvedAt"`
	ClosedAt    *time.Time           `json:"closedAt"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// StatusHistoryResponse is one ledger entry with the actor populated.
type StatusHistoryResponse struct {
	ID        string             `json:"id"`
	IssueID   string             `json:"issueId"`
	Status    domain.IssueStatus `json:"status"`
	ChangedBy *UserRefResponse   `json:"changedBy"`
	CreatedAt time.Time          `json:"createdAt"`
}
