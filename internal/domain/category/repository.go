package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines category data access
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, typ *Type) ([]*Category, error)
}

type repository struct {
	db *sqlx.DB
}

const categorySelectColumns = `id, name, description, type, created_at, updated_at`

// NewRepository creates category repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (id, name, description, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Type, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `SELECT ` + categorySelectColumns + ` FROM categories WHERE id = $1`

	var c Category
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Category, error) {
	query := `SELECT ` + categorySelectColumns + ` FROM categories WHERE name = $1`

	var c Category
	err := r.db.GetContext(ctx, &c, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, type = $4, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.Type)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, typ *Type) ([]*Category, error) {
	query := `SELECT ` + categorySelectColumns + ` FROM categories`
	args := []interface{}{}
	if typ != nil {
		query += ` WHERE type = $1`
		args = append(args, *typ)
	}
	query += ` ORDER BY name ASC`

	var categories []*Category
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, err
	}
	return categories, nil
}

func mapDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %w", ErrDuplicateName, err)
	case "23503":
		return fmt.Errorf("%w: %w", ErrCategoryInUse, err)
	default:
		return err
	}
}
