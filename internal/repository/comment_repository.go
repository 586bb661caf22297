package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/pkg/util"
)

// CommentRepository handles persistence for issue comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) ready() error {
	if r.pool == nil {
		return util.NewUnavailable("database not connected")
	}
	return nil
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.ready(); err != nil {
		return err
	}
	const query = `
        INSERT INTO comments (issue_id, author_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.IssueID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if err := r.ready(); err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx,
		`UPDATE comments SET body=$1, updated_at=NOW() WHERE id=$2`,
		comment.Body, comment.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	const query = `
        SELECT c.id, c.issue_id, c.author_id, c.body, c.created_at, c.updated_at, u.name, u.email
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.id=$1`
	var comment domain.Comment
	var name, email string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.IssueID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&name,
		&email,
	); err != nil {
		return nil, err
	}
	comment.Author = &domain.UserRef{ID: comment.AuthorID, Name: name, Email: email}
	return &comment, nil
}

func (r *commentRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	const query = `
        SELECT c.id, c.issue_id, c.author_id, c.body, c.created_at, c.updated_at, u.name, u.email
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.issue_id=$1
        ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		var name, email string
		if err := rows.Scan(
			&comment.ID,
			&comment.IssueID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&name,
			&email,
		); err != nil {
			return nil, err
		}
		comment.Author = &domain.UserRef{ID: comment.AuthorID, Name: name, Email: email}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
