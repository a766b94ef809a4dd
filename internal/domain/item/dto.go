package item

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateItemRequest for POST /api/admin/items
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	Size        string  `json:"size" validate:"omitempty,max=20"`
	Theme       string  `json:"theme" validate:"omitempty,max=100"`
	PricePerDay float64 `json:"price_per_day" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"omitempty,item_status"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// UpdateItemRequest for PUT /api/admin/items/{id}
type UpdateItemRequest struct {
	Name        string   `json:"name" validate:"omitempty,min=2,max=200"`
	CategoryID  string   `json:"category_id" validate:"omitempty,uuid"`
	Size        *string  `json:"size" validate:"omitempty,max=20"`
	Theme       *string  `json:"theme" validate:"omitempty,max=100"`
	PricePerDay *float64 `json:"price_per_day" validate:"omitempty,gt=0"`
	Status      string   `json:"status" validate:"omitempty,item_status"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Type         string    `json:"type,omitempty"`
	Size         *string   `json:"size,omitempty"`
	Theme        *string   `json:"theme,omitempty"`
	PricePerDay  float64   `json:"price_per_day"`
	Status       string    `json:"status"`
	ImageURL     *string   `json:"image_url,omitempty"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(i *Item) *ItemResponse {
	resp := &ItemResponse{
		ID:           i.ID,
		Name:         i.Name,
		CategoryID:   i.CategoryID,
		CategoryName: i.CategoryName,
		Type:         string(i.CategoryType),
		PricePerDay:  i.PricePerDay,
		Status:       string(i.Status),
		CreatedAt:    i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    i.UpdatedAt.Format(time.RFC3339),
	}
	if i.Size.Valid {
		resp.Size = &i.Size.String
	}
	if i.Theme.Valid {
		resp.Theme = &i.Theme.String
	}
	if i.ImageURL.Valid {
		resp.ImageURL = &i.ImageURL.String
	}
	return resp
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
