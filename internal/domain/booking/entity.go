package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle state (matches booking_status enum)
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus represents payment state (matches payment_status enum)
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is a customer's reservation of items over a date range
type Booking struct {
	ID            uuid.UUID      `db:"id"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	CustomerPhone sql.NullString `db:"customer_phone"`
	StartDate     time.Time      `db:"start_date"`
	EndDate       time.Time      `db:"end_date"`

	// Always server-computed, never taken from the client
	TotalAmount     float64 `db:"total_amount"`
	SecurityDeposit float64 `db:"security_deposit"`

	Status        Status        `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`

	// Junction rows, ordered by position
	Items []*BookingItem `db:"-"`
}

// BookingItem is one line of a booking with the price snapshot taken
// at booking time
type BookingItem struct {
	BookingID   uuid.UUID `db:"booking_id"`
	ItemID      uuid.UUID `db:"item_id"`
	Quantity    int       `db:"quantity"`
	PricePerDay float64   `db:"price_per_day"`
	Position    int       `db:"position"`

	// Joined data
	ItemName string `db:"item_name"`
}

// Days returns the number of charged rental days. Any started day counts.
func (b *Booking) Days() int {
	return RentalDays(b.StartDate, b.EndDate)
}

// RentalDays computes charged days for a date range; partial days round up
func RentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(hours / 24)
	if float64(days)*24 < hours {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// IsTerminal returns true if no further status changes are allowed
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
