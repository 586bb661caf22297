package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/command-center/internal/api/dto"
	"github.com/spec-kit/command-center/internal/auth"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/service"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// IssuesHandler manages the issue endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs the handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// Create POST /issues.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Create(c.Context(), principal, service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Facility:    req.Facility,
		SLADeadline: req.SLADeadline,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(issueResponse(issue))
}

// List GET /issues.
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	filter := service.IssueListFilter{}
	if v := c.Query("status"); v != "" {
		status := domain.IssueStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.IssuePriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	issues, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(issueResponses(issues))
}

// Get GET /issues/:id.
func (h *IssuesHandler) Get(c *fiber.Ctx) error {
	issue, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(issueResponse(issue))
}

// Update PATCH /issues/:id.
func (h *IssuesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Edit(c.Context(), principal, c.Params("id"), service.IssueEditInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Facility:    req.Facility,
		SLADeadline: req.SLADeadline,
	})
	if err != nil {
		return err
	}
	return c.JSON(issueResponse(issue))
}

// UpdateStatus POST /issues/:id/status.
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.ChangeStatus(c.Context(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(issueResponse(issue))
}

// Assign POST /issues/:id/assign.
func (h *IssuesHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Assign(c.Context(), principal, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(issueResponse(issue))
}

// Unassign POST /issues/:id/unassign.
func (h *IssuesHandler) Unassign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, err := h.service.Unassign(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(issueResponse(issue))
}

// StatusHistory GET /issues/:id/status-history.
func (h *IssuesHandler) StatusHistory(c *fiber.Ctx) error {
	entries, err := h.service.ListHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.StatusHistoryResponse{
			ID:        entry.ID,
			IssueID:   entry.IssueID,
			Status:    entry.Status,
			ChangedBy: userRefResponse(entry.Actor),
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(resp)
}

// BulkUpdate POST /issues/bulk.
func (h *IssuesHandler) BulkUpdate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issues, err := h.service.BulkUpdate(c.Context(), principal, req.IssueIDs, req.Updates)
	if err != nil {
		return err
	}
	return c.JSON(issueResponses(issues))
}

// Delete DELETE /issues/:id.
func (h *IssuesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Deleted"})
}

func issueResponse(issue *domain.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		Priority:    issue.Priority,
		Status:      issue.Status,
		Facility:    issue.Facility,
		CreatedBy:   userRefResponse(issue.Creator),
		AssignedTo:  userRefResponse(issue.Assignee),
		SLADeadline: issue.SLADeadline,
		ResolvedAt:  issue.ResolvedAt,
		ClosedAt:    issue.ClosedAt,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

func issueResponses(issues []domain.Issue) []dto.IssueResponse {
	resp := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		resp = append(resp, issueResponse(&issues[i]))
	}
	return resp
}

func userRefResponse(ref *domain.UserRef) *dto.UserRefResponse {
	if ref == nil {
		return nil
	}
	return &dto.UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email}
}
