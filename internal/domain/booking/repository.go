package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/domain/item"
)

// Filter narrows booking listings
type Filter struct {
	Status        *Status
	PaymentStatus *PaymentStatus
}

// Repository defines booking data access
type Repository interface {
	// Create atomically persists the booking, its item lines and the
	// rented flag on every referenced item. If any item is not
	// available the transaction rolls back and an
	// *UnavailableItemsError is returned; nothing is persisted.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, filter *Filter) ([]*Booking, error)

	// UpdateStatus changes the booking status and applies the matching
	// item transition (cancelled restores availability, completed sends
	// items to cleaning) in one transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus PaymentStatus) error
}

type repository struct {
	db       *sqlx.DB
	itemRepo item.Repository
}

const bookingSelectColumns = `
	id, customer_name, customer_email, customer_phone,
	start_date, end_date, total_amount, security_deposit,
	status, payment_status, created_at, updated_at
`

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB, itemRepo item.Repository) Repository {
	return &repository{db: db, itemRepo: itemRepo}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ids := make([]uuid.UUID, 0, len(b.Items))
	for _, line := range b.Items {
		ids = append(ids, line.ItemID)
	}

	locked, err := r.itemRepo.GetForUpdateTx(ctx, tx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*item.Item, len(locked))
	for _, it := range locked {
		byID[it.ID] = it
	}

	var unavailable []string
	for _, line := range b.Items {
		it, ok := byID[line.ItemID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, line.ItemID)
		}
		if !it.IsAvailable() {
			unavailable = append(unavailable, it.Name)
		}
	}
	if len(unavailable) > 0 {
		return &UnavailableItemsError{Names: unavailable}
	}

	query := `
		INSERT INTO bookings (` + strings.TrimSpace(bookingSelectColumns) + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = tx.ExecContext(ctx, query,
		b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.StartDate, b.EndDate, b.TotalAmount, b.SecurityDeposit,
		b.Status, b.PaymentStatus, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, line := range b.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO booking_items (booking_id, item_id, quantity, price_per_day, position)
			VALUES ($1, $2, $3, $4, $5)
		`, b.ID, line.ItemID, line.Quantity, line.PricePerDay, line.Position)
		if err != nil {
			return err
		}
	}

	if err := r.itemRepo.UpdateStatusTx(ctx, tx, ids, item.StatusRented); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Int("items", len(b.Items)).
		Float64("total", b.TotalAmount).
		Msg("booking created")

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) loadItems(ctx context.Context, b *Booking) error {
	query := `
		SELECT bi.booking_id, bi.item_id, bi.quantity, bi.price_per_day, bi.position,
			i.name AS item_name
		FROM booking_items bi
		JOIN items i ON i.id = bi.item_id
		WHERE bi.booking_id = $1
		ORDER BY bi.position ASC
	`
	return r.db.SelectContext(ctx, &b.Items, query, b.ID)
}

func (r *repository) List(ctx context.Context, filter *Filter) ([]*Booking, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter != nil {
		if filter.Status != nil {
			conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
			args = append(args, *filter.Status)
			argIndex++
		}
		if filter.PaymentStatus != nil {
			conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argIndex))
			args = append(args, *filter.PaymentStatus)
			argIndex++
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		%s
		ORDER BY created_at DESC
	`, bookingSelectColumns, where)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}

	for _, b := range bookings {
		if err := r.loadItems(ctx, b); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}

	var ids []uuid.UUID
	if err := tx.SelectContext(ctx, &ids,
		`SELECT item_id FROM booking_items WHERE booking_id = $1 ORDER BY position`, id); err != nil {
		return err
	}

	// Item side effects of the booking lifecycle
	switch status {
	case StatusCancelled:
		err = r.itemRepo.UpdateStatusTx(ctx, tx, ids, item.StatusAvailable)
	case StatusCompleted:
		err = r.itemRepo.UpdateStatusTx(ctx, tx, ids, item.StatusCleaning)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus PaymentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`, id, paymentStatus)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
