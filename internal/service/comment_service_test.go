package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/command-center/internal/auth"
	"github.com/spec-kit/command-center/internal/domain"
)

type commentFixture struct {
	svc      *CommentService
	comments *fakeCommentRepo
	issues   *fakeIssueRepo
}

func newCommentFixture(t *testing.T) (*commentFixture, *domain.Issue) {
	t.Helper()
	comments := newFakeCommentRepo()
	issues := newFakeIssueRepo()
	issue := &domain.Issue{
		Title:       "Gate sensor flapping",
		Description: "East gate sensor reports open/closed in a loop",
		Category:    "sensors",
		Priority:    domain.IssuePriorityLow,
		Status:      domain.IssueStatusOpen,
		CreatedBy:   rangerActor.ID,
	}
	require.NoError(t, issues.Create(context.Background(), issue))
	svc := NewCommentService(CommentDependencies{
		CommentRepo: comments,
		IssueRepo:   issues,
	})
	return &commentFixture{svc: svc, comments: comments, issues: issues}, issue
}

func TestCommentCreate(t *testing.T) {
	f, issue := newCommentFixture(t)
	ctx := context.Background()

	comment, err := f.svc.Create(ctx, rangerActor, issue.ID, "  checked on site, sensor cable is chewed  ")
	require.NoError(t, err)
	assert.Equal(t, "checked on site, sensor cable is chewed", comment.Body)
	assert.Equal(t, rangerActor.ID, comment.AuthorID)
	require.NotNil(t, comment.Author)
	assert.Equal(t, rangerActor.Name, comment.Author.Name)

	_, err = f.svc.Create(ctx, rangerActor, issue.ID, "   ")
	assertStatusCode(t, err, http.StatusBadRequest)

	_, err = f.svc.Create(ctx, rangerActor, "missing-issue", "hello")
	assertStatusCode(t, err, http.StatusNotFound)
}

func TestCommentModeration(t *testing.T) {
	f, issue := newCommentFixture(t)
	ctx := context.Background()

	comment, err := f.svc.Create(ctx, rangerActor, issue.ID, "original")
	require.NoError(t, err)

	other := &auth.Principal{ID: "user-other", Role: domain.RoleRanger}
	_, err = f.svc.Edit(ctx, other, comment.ID, "hijacked")
	assertStatusCode(t, err, http.StatusForbidden)
	err = f.svc.Delete(ctx, other, comment.ID)
	assertStatusCode(t, err, http.StatusForbidden)

	edited, err := f.svc.Edit(ctx, rangerActor, comment.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", edited.Body)

	// Elevated roles moderate any comment.
	require.NoError(t, f.svc.Delete(ctx, adminActor, comment.ID))
	err = f.svc.Delete(ctx, adminActor, comment.ID)
	assertStatusCode(t, err, http.StatusNotFound)
}

func TestCommentBodyPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := preview(long, 120)
	assert.Len(t, got, 120)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", preview("short", 120))
}
