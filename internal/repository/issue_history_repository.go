package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/pkg/util"
)

// IssueHistoryRepository stores the append-only status ledger. There is no
// update or delete: entries are immutable once written, and duplicates with
// identical status are permitted.
type IssueHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistoryEntry) error
	ListByIssue(ctx context.Context, issueID string) ([]domain.StatusHistoryEntry, error)
}

type issueHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewIssueHistoryRepository builds the repository.
func NewIssueHistoryRepository(pool *pgxpool.Pool) IssueHistoryRepository {
	return &issueHistoryRepository{pool: pool}
}

func (r *issueHistoryRepository) Create(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	if r.pool == nil {
		return util.NewUnavailable("database not connected")
	}
	const query = `
        INSERT INTO issue_status_history (issue_id, status, changed_by)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.IssueID,
		entry.Status,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *issueHistoryRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.StatusHistoryEntry, error) {
	if r.pool == nil {
		return nil, util.NewUnavailable("database not connected")
	}
	const query = `
        SELECT h.id, h.issue_id, h.status, h.changed_by, h.created_at, u.name, u.email
        FROM issue_status_history h
        JOIN users u ON u.id = h.changed_by
        WHERE h.issue_id=$1
        ORDER BY h.created_at DESC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		var name, email string
		if err := rows.Scan(
			&entry.ID,
			&entry.IssueID,
			&entry.Status,
			&entry.ChangedBy,
			&entry.CreatedAt,
			&name,
			&email,
		); err != nil {
			return nil, err
		}
		entry.Actor = &domain.UserRef{ID: entry.ChangedBy, Name: name, Email: email}
		result = append(result, entry)
	}
	return result, rows.Err()
}
