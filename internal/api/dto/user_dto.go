package dto

import (
	"time"

	"github.com/spec-kit/command-center/internal/domain"
)

// UserResponse is the account representation with the hash omitted.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// EngineerResponse pairs an engineer with their open workload.
type EngineerResponse struct {
	UserResponse
	Workload int `json:"workload"`
}
