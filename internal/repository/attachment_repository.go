package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/pkg/util"
)

// AttachmentRepository handles persistence for attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByIssue(ctx context.Context, issueID string) ([]domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository instantiates the repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) ready() error {
	if r.pool == nil {
		return util.NewUnavailable("database not connected")
	}
	return nil
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	if err := r.ready(); err != nil {
		return err
	}
	const query = `
        INSERT INTO attachments (issue_id, file_name, file_url, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		attachment.IssueID,
		attachment.FileName,
		attachment.FileURL,
		attachment.MimeType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.Attachment, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	const query = `
        SELECT id, issue_id, file_name, file_url, mime_type, size_bytes, created_at
        FROM attachments WHERE issue_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.IssueID,
			&attachment.FileName,
			&attachment.FileURL,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
