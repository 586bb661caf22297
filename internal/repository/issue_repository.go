package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/pkg/util"
)

// IssueFilter captures listing parameters.
type IssueFilter struct {
	Status   *domain.IssueStatus
	Priority *domain.IssuePriority
	Category *string
	Search   *string
}

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Issue, error)
	BulkSet(ctx context.Context, ids []string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	CountAssigned(ctx context.Context, userID string, statuses []domain.IssueStatus) (int, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates the repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `
        i.id, i.title, i.description, i.category, i.priority, i.status, i.facility,
        i.created_by, i.assigned_to, i.sla_deadline, i.resolved_at, i.closed_at,
        i.created_at, i.updated_at,
        c.name, c.email, a.name, a.email`

const issueFrom = `
        FROM issues i
        JOIN users c ON c.id = i.created_by
        LEFT JOIN users a ON a.id = i.assigned_to`

func (r *issueRepository) ready() error {
	if r.pool == nil {
		return util.NewUnavailable("database not connected")
	}
	return nil
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	if err := r.ready(); err != nil {
		return err
	}
	const query = `
        INSERT INTO issues (title, description, category, priority, status, facility, created_by, assigned_to, sla_deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Priority,
		issue.Status,
		issue.Facility,
		issue.CreatedBy,
		issue.AssignedTo,
		issue.SLADeadline,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	if err := r.ready(); err != nil {
		return err
	}
	const query = `
        UPDATE issues SET title=$1, description=$2, category=$3, priority=$4, status=$5,
            facility=$6, assigned_to=$7, sla_deadline=$8, resolved_at=$9, closed_at=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Priority,
		issue.Status,
		issue.Facility,
		issue.AssignedTo,
		issue.SLADeadline,
		issue.ResolvedAt,
		issue.ClosedAt,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `SELECT` + issueColumns + issueFrom + ` WHERE i.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	issue, err := scanIssue(row)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *issueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("i.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("i.priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("i.category=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(i.title ILIKE %s OR i.description ILIKE %s OR i.category ILIKE %s)",
			placeholder, placeholder, placeholder))
	}

	query := `SELECT` + issueColumns + issueFrom +
		` WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Issue, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `SELECT` + issueColumns + issueFrom +
		` WHERE i.id = ANY($1) ORDER BY i.created_at DESC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

// BulkSet applies a raw field overwrite to every matching issue. Callers are
// responsible for whitelisting column names; values are always bound as
// query arguments.
func (r *issueRepository) BulkSet(ctx context.Context, ids []string, fields map[string]any) error {
	if err := r.ready(); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for col := range fields {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns)+1)
	args := []any{}
	for _, col := range columns {
		args = append(args, fields[col])
		assignments = append(assignments, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	assignments = append(assignments, "updated_at=NOW()")

	args = append(args, ids)
	query := fmt.Sprintf("UPDATE issues SET %s WHERE id = ANY($%d)",
		strings.Join(assignments, ", "), len(args))

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *issueRepository) Delete(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM issues WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) CountAssigned(ctx context.Context, userID string, statuses []domain.IssueStatus) (int, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM issues WHERE assigned_to=$1 AND status = ANY($2)`,
		userID, values,
	).Scan(&count)
	return count, err
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var issue domain.Issue
	var creatorName, creatorEmail string
	var assigneeName, assigneeEmail *string
	if err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Priority,
		&issue.Status,
		&issue.Facility,
		&issue.CreatedBy,
		&issue.AssignedTo,
		&issue.SLADeadline,
		&issue.ResolvedAt,
		&issue.ClosedAt,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&creatorName,
		&creatorEmail,
		&assigneeName,
		&assigneeEmail,
	); err != nil {
		return nil, err
	}
	issue.Creator = &domain.UserRef{ID: issue.CreatedBy, Name: creatorName, Email: creatorEmail}
	if issue.AssignedTo != nil && assigneeName != nil && assigneeEmail != nil {
		issue.Assignee = &domain.UserRef{ID: *issue.AssignedTo, Name: *assigneeName, Email: *assigneeEmail}
	}
	return &issue, nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	return result, rows.Err()
}
