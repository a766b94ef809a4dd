package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/costumehub/costumehub-api/internal/domain/category"
)

// Filter narrows item listings. Every set field is an exact-match
// condition; conditions are ANDed together.
type Filter struct {
	CategoryID   *uuid.UUID
	CategoryType *category.Type
	Size         *string
	Theme        *string
	Status       *Status
}

// Repository defines item data access
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*Item, error)

	// Tx variants used by the booking transaction
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID) ([]*Item, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, status Status) error
}

type repository struct {
	db *sqlx.DB
}

const itemSelectColumns = `
	i.id, i.name, i.category_id, i.size, i.theme, i.price_per_day,
	i.status, i.image_url, i.created_at, i.updated_at,
	c.name AS category_name, c.type AS category_type
`

// NewRepository creates item repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO items (id, name, category_id, size, theme, price_per_day, status, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.CategoryID, item.Size, item.Theme,
		item.PricePerDay, item.Status, item.ImageURL, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := `
		SELECT ` + itemSelectColumns + `
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.id = $1
	`

	var item Item
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, item *Item) error {
	query := `
		UPDATE items
		SET name = $2, category_id = $3, size = $4, theme = $5,
			price_per_day = $6, status = $7, image_url = $8, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.CategoryID, item.Size, item.Theme,
		item.PricePerDay, item.Status, item.ImageURL,
	)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE items SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter *Filter) ([]*Item, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter != nil {
		if filter.CategoryID != nil {
			conditions = append(conditions, fmt.Sprintf("i.category_id = $%d", argIndex))
			args = append(args, *filter.CategoryID)
			argIndex++
		}
		if filter.CategoryType != nil {
			conditions = append(conditions, fmt.Sprintf("c.type = $%d", argIndex))
			args = append(args, *filter.CategoryType)
			argIndex++
		}
		if filter.Size != nil && *filter.Size != "" {
			conditions = append(conditions, fmt.Sprintf("i.size = $%d", argIndex))
			args = append(args, *filter.Size)
			argIndex++
		}
		if filter.Theme != nil && *filter.Theme != "" {
			conditions = append(conditions, fmt.Sprintf("i.theme = $%d", argIndex))
			args = append(args, *filter.Theme)
			argIndex++
		}
		if filter.Status != nil && *filter.Status != "" {
			conditions = append(conditions, fmt.Sprintf("i.status = $%d", argIndex))
			args = append(args, *filter.Status)
			argIndex++
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM items i
		JOIN categories c ON c.id = i.category_id
		%s
		ORDER BY i.created_at DESC
	`, itemSelectColumns, where)

	var items []*Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID) ([]*Item, error) {
	// Lock rows in a stable order to avoid deadlocks between concurrent bookings
	query := `
		SELECT id, name, category_id, size, theme, price_per_day,
			status, image_url, created_at, updated_at
		FROM items
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	var items []*Item
	if err := tx.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, status Status) error {
	query := `UPDATE items SET status = $2, updated_at = NOW() WHERE id = ANY($1)`
	_, err := tx.ExecContext(ctx, query, pq.Array(ids), status)
	return err
}

func mapDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23503":
		if strings.Contains(pqErr.Constraint, "category") {
			return fmt.Errorf("%w: %w", ErrInvalidCategory, err)
		}
		return fmt.Errorf("%w: %w", ErrItemHasBookings, err)
	default:
		return err
	}
}
