package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/command-center/internal/api/dto"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/service"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// AttachmentsHandler manages attachment endpoints.
type AttachmentsHandler struct {
	service *service.AttachmentService
}

// NewAttachmentsHandler constructs the handler.
func NewAttachmentsHandler(attachmentService *service.AttachmentService) *AttachmentsHandler {
	return &AttachmentsHandler{service: attachmentService}
}

// Upload POST /attachments/issue/:issueId.
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}

	attachment, err := h.service.Upload(c.Context(), c.Params("issueId"), header)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(attachmentResponse(attachment))
}

// ListByIssue GET /attachments/issue/:issueId.
func (h *AttachmentsHandler) ListByIssue(c *fiber.Ctx) error {
	attachments, err := h.service.ListByIssue(c.Context(), c.Params("issueId"))
	if err != nil {
		return err
	}
	resp := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		resp = append(resp, attachmentResponse(&attachments[i]))
	}
	return c.JSON(resp)
}

// Delete DELETE /attachments/:id.
func (h *AttachmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Deleted"})
}

func attachmentResponse(attachment *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        attachment.ID,
		IssueID:   attachment.IssueID,
		FileName:  attachment.FileName,
		FileURL:   attachment.FileURL,
		MimeType:  attachment.MimeType,
		SizeBytes: attachment.SizeBytes,
		CreatedAt: attachment.CreatedAt,
	}
}
