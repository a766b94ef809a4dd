package category

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateCategoryRequest for POST /api/admin/categories
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Type        string `json:"type" validate:"required,category_type"`
}

// UpdateCategoryRequest for PUT /api/admin/categories/{id}
type UpdateCategoryRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Type        string  `json:"type" validate:"omitempty,category_type"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(c *Category) *CategoryResponse {
	resp := &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
	if c.Description.Valid {
		resp.Description = c.Description.String
	}
	return resp
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
