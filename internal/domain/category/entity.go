package category

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type says which side of the catalog a category belongs to
type Type string

const (
	TypeCostume   Type = "costume"
	TypeAccessory Type = "accessory"
)

// Category groups rentable items. Names are unique across both types.
type Category struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Type        Type           `db:"type"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
