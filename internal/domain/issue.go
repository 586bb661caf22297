package domain

import "time"

// IssueStatus enumerates lifecycle states for issues. The transition
// relation is unrestricted: any status may follow any other.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusOnHold     IssueStatus = "on-hold"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IssuePriority enumerates SLA urgency.
type IssuePriority string

const (
	IssuePriorityCritical IssuePriority = "critical"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityLow      IssuePriority = "low"
)

// ValidStatus reports whether the value is one of the five persisted statuses.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusOnHold, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether the value is an enumerated priority.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case IssuePriorityCritical, IssuePriorityHigh, IssuePriorityMedium, IssuePriorityLow:
		return true
	}
	return false
}

// UserRef is a resolved reference to a user, populated on reads.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

// Issue is the aggregate for tracked operational issues.
type Issue struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    IssuePriority
	Status      IssueStatus
	Facility    *string
	CreatedBy   string
	AssignedTo  *string
	SLADeadline *time.Time
	ResolvedAt  *time.Time
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Creator and Assignee are populated by read queries; they are not
	// persisted on the issue row itself.
	Creator  *UserRef
	Assignee *UserRef
}

// Overdue reports whether the SLA deadline has passed at the given instant.
// Breach is always a derived comparison, never persisted.
func (i *Issue) Overdue(now time.Time) bool {
	return i.SLADeadline != nil && i.SLADeadline.Before(now)
}
