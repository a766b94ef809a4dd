package booking

import (
	"time"

	"github.com/google/uuid"
)

// BookingItemRequest is one cart line in a checkout request
type BookingItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=20"`
}

// CreateBookingRequest for POST /api/bookings.
// TotalAmount is accepted for wire compatibility with older storefront
// builds but never trusted; the server recomputes it.
type CreateBookingRequest struct {
	CustomerName  string               `json:"customer_name" validate:"required,min=2,max=200"`
	CustomerEmail string               `json:"customer_email" validate:"required,email"`
	CustomerPhone string               `json:"customer_phone" validate:"omitempty,max=30"`
	StartDate     string               `json:"start_date" validate:"required"`
	EndDate       string               `json:"end_date" validate:"required"`
	Items         []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount   float64              `json:"total_amount"`
}

// UpdateStatusRequest for PATCH /api/admin/bookings/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// UpdatePaymentRequest for PATCH /api/admin/bookings/{id}/payment
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,payment_status"`
}

// BookingItemResponse represents one booking line in API responses
type BookingItemResponse struct {
	ItemID      uuid.UUID `json:"item_id"`
	ItemName    string    `json:"item_name,omitempty"`
	Quantity    int       `json:"quantity"`
	PricePerDay float64   `json:"price_per_day"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID              uuid.UUID             `json:"id"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   *string               `json:"customer_phone,omitempty"`
	StartDate       string                `json:"start_date"`
	EndDate         string                `json:"end_date"`
	Days            int                   `json:"days"`
	Items           []BookingItemResponse `json:"items"`
	TotalAmount     float64               `json:"total_amount"`
	SecurityDeposit float64               `json:"security_deposit"`
	Status          string                `json:"status"`
	PaymentStatus   string                `json:"payment_status"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(b *Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:              b.ID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		StartDate:       b.StartDate.Format(time.RFC3339),
		EndDate:         b.EndDate.Format(time.RFC3339),
		Days:            b.Days(),
		Items:           make([]BookingItemResponse, 0, len(b.Items)),
		TotalAmount:     b.TotalAmount,
		SecurityDeposit: b.SecurityDeposit,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
	if b.CustomerPhone.Valid {
		resp.CustomerPhone = &b.CustomerPhone.String
	}
	for _, it := range b.Items {
		resp.Items = append(resp.Items, BookingItemResponse{
			ItemID:      it.ItemID,
			ItemName:    it.ItemName,
			Quantity:    it.Quantity,
			PricePerDay: it.PricePerDay,
		})
	}
	return resp
}
