package admin

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Admin is a dashboard operator account
type Admin struct {
	ID           uuid.UUID    `db:"id"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	Name         string       `db:"name"`
	IsActive     bool         `db:"is_active"`
	LastLoginAt  sql.NullTime `db:"last_login_at"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}
