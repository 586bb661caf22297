package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/command-center/internal/auth"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/events"
	"github.com/spec-kit/command-center/internal/repository"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// IssueService is the lifecycle engine: the sole mutator of an issue's
// status, assignment and resolution timestamps, and the sole producer of
// ledger entries tied to those mutations.
type IssueService struct {
	issues     repository.IssueRepository
	history    repository.IssueHistoryRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// IssueDependencies bundles repositories for the issue service.
type IssueDependencies struct {
	IssueRepo   repository.IssueRepository
	HistoryRepo repository.IssueHistoryRepository
	Dispatcher  events.Dispatcher
}

// IssueCreateInput describes issue creation payload. A nil SLADeadline is a
// valid input: the engine never fabricates one.
type IssueCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.IssuePriority
	Facility    *string
	SLADeadline *time.Time
}

// IssueEditInput describes a partial update. Nil fields are left untouched.
type IssueEditInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.IssuePriority
	Facility    *string
	SLADeadline *time.Time
}

// IssueListFilter describes listing filters.
type IssueListFilter struct {
	Status   *domain.IssueStatus
	Priority *domain.IssuePriority
	Category *string
	Search   *string
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Create opens a new issue with status open and appends the initial ledger
// entry recording that status.
func (s *IssueService) Create(ctx context.Context, actor *auth.Principal, input IssueCreateInput) (*domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if title == "" || description == "" || category == "" {
		return nil, apperrors.NewValidationError("title, description, category required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.IssuePriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	issue := &domain.Issue{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      domain.IssueStatusOpen,
		Facility:    input.Facility,
		CreatedBy:   actor.ID,
		SLADeadline: input.SLADeadline,
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.appendLedger(ctx, issue.ID, issue.Status, actor.ID); err != nil {
		// The issue write is not rolled back; the append failure surfaces.
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.IssueCreatedPayload{
			Title:       issue.Title,
			Category:    issue.Category,
			Priority:    issue.Priority,
			SLADeadline: issue.SLADeadline,
		},
	})
	return s.fetch(ctx, issue.ID)
}

// ChangeStatus sets the status unconditionally: any status is reachable from
// any other. The target value alone drives the resolvedAt/closedAt side
// effects; once set those timestamps are never cleared here.
func (s *IssueService) ChangeStatus(ctx context.Context, actor *auth.Principal, issueID string, newStatus domain.IssueStatus) (*domain.Issue, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	if !auth.CanChangeStatus(actor) {
		return nil, apperrors.NewForbidden("insufficient role for status change")
	}

	issue, err := s.getForUpdate(ctx, issueID)
	if err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	issue.Status = newStatus
	now := s.now()
	if newStatus == domain.IssueStatusResolved {
		issue.ResolvedAt = &now
	}
	if newStatus == domain.IssueStatusClosed {
		issue.ClosedAt = &now
	}

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.appendLedger(ctx, issue.ID, newStatus, actor.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.IssueStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return s.fetch(ctx, issue.ID)
}

// Assign sets the assignee (nil permitted, meaning unassign-via-assign) and
// appends a ledger entry recording the literal status "open" regardless of
// the issue's actual status.
func (s *IssueService) Assign(ctx context.Context, actor *auth.Principal, issueID string, assignedTo *string) (*domain.Issue, error) {
	if !auth.CanAssign(actor) {
		return nil, apperrors.NewForbidden("insufficient role for assignment")
	}

	issue, err := s.getForUpdate(ctx, issueID)
	if err != nil {
		return nil, err
	}

	issue.AssignedTo = assignedTo
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.appendLedger(ctx, issue.ID, domain.IssueStatusOpen, actor.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issue.ID,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.IssueAssignedPayload{AssignedTo: assignedTo},
	})
	return s.fetch(ctx, issue.ID)
}

// Unassign clears the assignee. No ledger entry is appended, asymmetric
// with Assign.
func (s *IssueService) Unassign(ctx context.Context, actor *auth.Principal, issueID string) (*domain.Issue, error) {
	if !auth.CanAssign(actor) {
		return nil, apperrors.NewForbidden("insufficient role for assignment")
	}

	issue, err := s.getForUpdate(ctx, issueID)
	if err != nil {
		return nil, err
	}

	issue.AssignedTo = nil
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.fetch(ctx, issue.ID)
}

// Edit applies a shallow merge of the provided fields. It never touches
// status, assignment or the resolution timestamps, and writes no ledger
// entry.
func (s *IssueService) Edit(ctx context.Context, actor *auth.Principal, issueID string, input IssueEditInput) (*domain.Issue, error) {
	issue, err := s.getForUpdate(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !auth.CanEditIssue(issue.CreatedBy, actor) {
		return nil, apperrors.NewForbidden("only the creator or an elevated role may edit")
	}

	if input.Title != nil {
		issue.Title = *input.Title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Category != nil {
		issue.Category = *input.Category
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		issue.Priority = *input.Priority
	}
	if input.Facility != nil {
		issue.Facility = input.Facility
	}
	if input.SLADeadline != nil {
		issue.SLADeadline = input.SLADeadline
	}

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.fetch(ctx, issue.ID)
}

// bulkColumns whitelists the JSON field names the bulk endpoint may
// overwrite, mapped to their columns. Anything else is dropped.
var bulkColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"category":    "category",
	"priority":    "priority",
	"facility":    "facility",
	"status":      "status",
	"assignedTo":  "assigned_to",
	"slaDeadline": "sla_deadline",
}

// BulkUpdate applies the same raw field overwrite to every matching issue.
// It deliberately bypasses the per-issue lifecycle path: no ledger entries,
// no resolvedAt/closedAt side effects, no ownership checks.
func (s *IssueService) BulkUpdate(ctx context.Context, actor *auth.Principal, issueIDs []string, updates map[string]any) ([]domain.Issue, error) {
	if actor == nil || !actor.Role.Elevated() {
		return nil, apperrors.NewForbidden("insufficient role for bulk update")
	}
	if len(issueIDs) == 0 {
		return nil, apperrors.NewValidationError("issueIds required", nil)
	}
	if len(updates) == 0 {
		return nil, apperrors.NewValidationError("updates required", nil)
	}

	fields := make(map[string]any, len(updates))
	for key, value := range updates {
		if col, ok := bulkColumns[key]; ok {
			fields[col] = value
		}
	}

	if err := s.issues.BulkSet(ctx, issueIDs, fields); err != nil {
		return nil, apperrors.MapError(err)
	}
	issues, err := s.issues.ListByIDs(ctx, issueIDs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// Delete removes the issue. Ledger entries are left orphaned on purpose.
func (s *IssueService) Delete(ctx context.Context, actor *auth.Principal, issueID string) error {
	if actor == nil || !actor.Role.Elevated() {
		return apperrors.NewForbidden("insufficient role for delete")
	}
	if err := s.issues.Delete(ctx, issueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Deleting an absent issue is a no-op.
			return nil
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Get returns a single issue with creator and assignee populated.
func (s *IssueService) Get(ctx context.Context, issueID string) (*domain.Issue, error) {
	return s.fetch(ctx, issueID)
}

// List returns issues matching the filter, newest first.
func (s *IssueService) List(ctx context.Context, filter IssueListFilter) ([]domain.Issue, error) {
	issues, err := s.issues.List(ctx, repository.IssueFilter{
		Status:   filter.Status,
		Priority: filter.Priority,
		Category: filter.Category,
		Search:   filter.Search,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// ListHistory returns the full ledger for an issue, newest first, with each
// entry's actor resolved to a display identity.
func (s *IssueService) ListHistory(ctx context.Context, issueID string) ([]domain.StatusHistoryEntry, error) {
	entries, err := s.history.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *IssueService) getForUpdate(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

func (s *IssueService) fetch(ctx context.Context, issueID string) (*domain.Issue, error) {
	return s.getForUpdate(ctx, issueID)
}

func (s *IssueService) appendLedger(ctx context.Context, issueID string, status domain.IssueStatus, changedBy string) error {
	return s.history.Create(ctx, &domain.StatusHistoryEntry{
		IssueID:   issueID,
		Status:    status,
		ChangedBy: changedBy,
	})
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
