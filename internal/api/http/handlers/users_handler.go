package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/command-center/internal/api/dto"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/service"
)

// UsersHandler exposes account listings.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var role *domain.UserRole
	if v := c.Query("role"); v != "" {
		r := domain.UserRole(v)
		role = &r
	}
	users, err := h.service.List(c.Context(), role)
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	return c.JSON(resp)
}

// ListEngineers GET /users/engineers.
func (h *UsersHandler) ListEngineers(c *fiber.Ctx) error {
	engineers, err := h.service.ListEngineers(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.EngineerResponse, 0, len(engineers))
	for i := range engineers {
		resp = append(resp, dto.EngineerResponse{
			UserResponse: userResponse(&engineers[i].User),
			Workload:     engineers[i].Workload,
		})
	}
	return c.JSON(resp)
}
