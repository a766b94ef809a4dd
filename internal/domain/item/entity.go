package item

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/costumehub/costumehub-api/internal/domain/category"
)

// Status represents item availability (matches item_status enum)
type Status string

const (
	StatusAvailable Status = "available"
	StatusRented    Status = "rented"
	StatusCleaning  Status = "cleaning"
	StatusDamaged   Status = "damaged"
)

// Item is a rentable costume or accessory
type Item struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	CategoryID  uuid.UUID      `db:"category_id"`
	Size        sql.NullString `db:"size"`
	Theme       sql.NullString `db:"theme"`
	PricePerDay float64        `db:"price_per_day"`
	Status      Status         `db:"status"`
	ImageURL    sql.NullString `db:"image_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`

	// Joined data, populated by list queries
	CategoryName string        `db:"category_name"`
	CategoryType category.Type `db:"category_type"`
}

// IsAvailable returns true if the item can be booked
func (i *Item) IsAvailable() bool {
	return i.Status == StatusAvailable
}
