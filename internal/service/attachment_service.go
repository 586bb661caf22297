package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/command-center/internal/config"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/repository"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// AttachmentService stores uploaded files on disk and their metadata rows.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	issues      repository.IssueRepository
	cfg         config.UploadConfig
}

// NewAttachmentService constructs the service.
func NewAttachmentService(attachments repository.AttachmentRepository, issues repository.IssueRepository, cfg config.UploadConfig) *AttachmentService {
	return &AttachmentService{attachments: attachments, issues: issues, cfg: cfg}
}

// Upload writes the file under the upload directory with a uuid-prefixed
// name and records its metadata against the issue.
func (s *AttachmentService) Upload(ctx context.Context, issueID string, header *multipart.FileHeader) (*domain.Attachment, error) {
	if header == nil {
		return nil, apperrors.NewValidationError("file required", nil)
	}
	if s.cfg.MaxSizeBytes > 0 && header.Size > s.cfg.MaxSizeBytes {
		return nil, apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.cfg.MaxSizeBytes})
	}
	if _, err := s.issues.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, apperrors.MapError(err)
	}

	storedName := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename))
	dst := filepath.Join(s.cfg.Dir, storedName)
	if err := saveMultipartFile(header, dst); err != nil {
		return nil, apperrors.MapError(err)
	}

	attachment := &domain.Attachment{
		IssueID:   issueID,
		FileName:  header.Filename,
		FileURL:   "/uploads/" + storedName,
		MimeType:  header.Header.Get("Content-Type"),
		SizeBytes: header.Size,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListByIssue returns attachment metadata for an issue, newest first.
func (s *AttachmentService) ListByIssue(ctx context.Context, issueID string) ([]domain.Attachment, error) {
	attachments, err := s.attachments.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}

// Delete removes the metadata row. The file on disk is left behind.
func (s *AttachmentService) Delete(ctx context.Context, id string) error {
	if err := s.attachments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	return nil
}

func saveMultipartFile(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
