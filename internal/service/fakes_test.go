package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/repository"
)

// In-memory stand-ins for the Postgres repositories. They mimic the contract
// the services rely on: copies on read, pgx.ErrNoRows for missing rows.

type fakeIssueRepo struct {
	mu     sync.Mutex
	seq    int
	issues map[string]domain.Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: map[string]domain.Issue{}}
}

func (f *fakeIssueRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("issue-%d", f.seq)
}

func (f *fakeIssueRepo) Create(ctx context.Context, issue *domain.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue.ID = f.nextID()
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	f.issues[issue.ID] = *issue
	return nil
}

func (f *fakeIssueRepo) Update(ctx context.Context, issue *domain.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[issue.ID]; !ok {
		return pgx.ErrNoRows
	}
	issue.UpdatedAt = time.Now()
	f.issues[issue.ID] = *issue
	return nil
}

func (f *fakeIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := issue
	return &copied, nil
}

func (f *fakeIssueRepo) List(ctx context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Issue
	for _, issue := range f.issues {
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && issue.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && issue.Category != *filter.Category {
			continue
		}
		result = append(result, issue)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeIssueRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Issue
	for _, id := range ids {
		if issue, ok := f.issues[id]; ok {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (f *fakeIssueRepo) BulkSet(ctx context.Context, ids []string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		issue, ok := f.issues[id]
		if !ok {
			continue
		}
		for col, value := range fields {
			switch col {
			case "title":
				issue.Title = value.(string)
			case "description":
				issue.Description = value.(string)
			case "category":
				issue.Category = value.(string)
			case "priority":
				issue.Priority = domain.IssuePriority(value.(string))
			case "status":
				issue.Status = domain.IssueStatus(value.(string))
			case "facility":
				if value == nil {
					issue.Facility = nil
				} else {
					v := value.(string)
					issue.Facility = &v
				}
			case "assigned_to":
				if value == nil {
					issue.AssignedTo = nil
				} else {
					v := value.(string)
					issue.AssignedTo = &v
				}
			case "sla_deadline":
				if value == nil {
					issue.SLADeadline = nil
				} else {
					v := value.(time.Time)
					issue.SLADeadline = &v
				}
			default:
				return fmt.Errorf("unexpected column %q", col)
			}
		}
		issue.UpdatedAt = time.Now()
		f.issues[id] = issue
	}
	return nil
}

func (f *fakeIssueRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeIssueRepo) CountAssigned(ctx context.Context, userID string, statuses []domain.IssueStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, issue := range f.issues {
		if issue.AssignedTo == nil || *issue.AssignedTo != userID {
			continue
		}
		for _, s := range statuses {
			if issue.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	seq     int
	entries []domain.StatusHistoryEntry
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) Create(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	entry.ID = fmt.Sprintf("history-%d", f.seq)
	// Monotonic timestamps so newest-first ordering is deterministic.
	entry.CreatedAt = time.Unix(int64(f.seq), 0)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByIssue(ctx context.Context, issueID string) ([]domain.StatusHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StatusHistoryEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].IssueID == issueID {
			result = append(result, f.entries[i])
		}
	}
	return result, nil
}

func (f *fakeHistoryRepo) forIssue(issueID string) []domain.StatusHistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StatusHistoryEntry
	for _, entry := range f.entries {
		if entry.IssueID == issueID {
			result = append(result, entry)
		}
	}
	return result
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]string{}}
}

func (f *fakeSessionStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[jti] = userID
	return nil
}

func (f *fakeSessionStore) Validate(ctx context.Context, jti string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.sessions[jti]
	if !ok {
		return "", repository.ErrRefreshTokenNotFound
	}
	return userID, nil
}

func (f *fakeSessionStore) Revoke(ctx context.Context, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, jti)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments map[string]domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]domain.Comment{}}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	comment.ID = fmt.Sprintf("comment-%d", f.seq)
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	f.comments[comment.ID] = *comment
	return nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.comments[comment.ID] = *comment
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := comment
	return &copied, nil
}

func (f *fakeCommentRepo) ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Comment
	for _, comment := range f.comments {
		if comment.IssueID == issueID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.comments, id)
	return nil
}
