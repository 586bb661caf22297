package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/command-center/internal/auth"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/events"
	"github.com/spec-kit/command-center/internal/repository"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// CommentService manages issue comments.
type CommentService struct {
	comments   repository.CommentRepository
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	IssueRepo   repository.IssueRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		issues:     deps.IssueRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListByIssue returns comments for an issue, newest first, author populated.
func (s *CommentService) ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Create adds a comment to an issue.
func (s *CommentService) Create(ctx context.Context, actor *auth.Principal, issueID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	if _, err := s.issues.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		IssueID:  issueID,
		AuthorID: actor.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	comment.Author = &domain.UserRef{ID: actor.ID, Name: actor.Name}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:      uuid.NewString(),
			Type:    events.EventIssueCommented,
			IssueID: issueID,
			Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload: events.IssueCommentedPayload{
				CommentID:   comment.ID,
				BodyPreview: preview(body, 120),
			},
		})
	}
	return comment, nil
}

// Edit replaces the comment body. Gated by the moderation predicate.
func (s *CommentService) Edit(ctx context.Context, actor *auth.Principal, commentID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanModerateComment(comment.AuthorID, actor) {
		return nil, apperrors.NewForbidden("only the author or an elevated role may edit")
	}

	comment.Body = body
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// Delete removes a comment. Gated by the moderation predicate.
func (s *CommentService) Delete(ctx context.Context, actor *auth.Principal, commentID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !auth.CanModerateComment(comment.AuthorID, actor) {
		return apperrors.NewForbidden("only the author or an elevated role may delete")
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CommentService) getComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
