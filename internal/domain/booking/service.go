package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/costumehub/costumehub-api/internal/domain/item"
)

// ItemReader is the slice of the item repository the booking service needs
type ItemReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
}

// Service handles booking business logic
type Service struct {
	repo  Repository
	items ItemReader
}

// NewService creates booking service
func NewService(repo Repository, items ItemReader) *Service {
	return &Service{repo: repo, items: items}
}

func parseDateField(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &InvalidDateError{Field: field}
	}
	return t, nil
}

// Create validates a checkout request, computes totals server-side and
// persists the booking atomically. Client-submitted totals are ignored.
func (s *Service) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}

	days := RentalDays(start, end)

	// Merge duplicate item lines the way the cart does
	merged := make([]*BookingItem, 0, len(req.Items))
	index := map[uuid.UUID]*BookingItem{}
	for _, line := range req.Items {
		id, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, ErrUnknownItem
		}
		if existing, ok := index[id]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		bi := &BookingItem{ItemID: id, Quantity: line.Quantity}
		index[id] = bi
		merged = append(merged, bi)
	}

	var total, deposit float64
	for pos, line := range merged {
		it, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return nil, ErrUnknownItem
		}
		line.PricePerDay = it.PricePerDay
		line.ItemName = it.Name
		line.Position = pos

		total += it.PricePerDay * float64(days) * float64(line.Quantity)
		deposit += it.PricePerDay * float64(line.Quantity)
	}

	now := time.Now()
	b := &Booking{
		ID:              uuid.New(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   sql.NullString{String: req.CustomerPhone, Valid: req.CustomerPhone != ""},
		StartDate:       start,
		EndDate:         end,
		TotalAmount:     total,
		SecurityDeposit: deposit,
		Status:          StatusActive,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           merged,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID returns booking by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// List returns bookings matching the filter
func (s *Service) List(ctx context.Context, filter *Filter) ([]*Booking, error) {
	return s.repo.List(ctx, filter)
}

func validateStatusTransition(current, next Status) error {
	if current == next {
		return nil
	}

	switch current {
	case StatusActive:
		if next == StatusCompleted || next == StatusOverdue || next == StatusCancelled {
			return nil
		}
	case StatusOverdue:
		if next == StatusCompleted || next == StatusCancelled {
			return nil
		}
	case StatusCompleted, StatusCancelled:
		// Terminal.
	}

	return ErrInvalidStatusTransition
}

func validatePaymentChange(current, next PaymentStatus) error {
	if current == next {
		return nil
	}

	switch current {
	case PaymentPending:
		if next == PaymentPaid {
			return nil
		}
	case PaymentPaid:
		if next == PaymentRefunded {
			return nil
		}
	case PaymentRefunded:
		// Terminal.
	}

	return ErrInvalidPaymentChange
}

// UpdateStatus moves a booking along its lifecycle. Cancellation restores
// item availability, completion moves items to cleaning.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if err := validateStatusTransition(b.Status, next); err != nil {
		return nil, err
	}

	if b.Status != next {
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			return nil, err
		}
		b.Status = next
	}
	return b, nil
}

// UpdatePaymentStatus changes payment state along pending → paid → refunded
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next PaymentStatus) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if err := validatePaymentChange(b.PaymentStatus, next); err != nil {
		return nil, err
	}

	if b.PaymentStatus != next {
		if err := s.repo.UpdatePaymentStatus(ctx, id, next); err != nil {
			return nil, err
		}
		b.PaymentStatus = next
	}
	return b, nil
}
