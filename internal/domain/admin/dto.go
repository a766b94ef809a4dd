package admin

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest for POST /api/admin/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminResponse represents an admin account in API responses
type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(a *Admin) *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}
