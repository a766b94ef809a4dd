package dashboard

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Stats represents admin dashboard statistics
type Stats struct {
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveRentals  int     `json:"active_rentals"`
	AvailableItems int     `json:"available_items"`
	OverdueReturns int     `json:"overdue_returns"`
}

// Service aggregates dashboard statistics
type Service struct {
	db *sqlx.DB
}

// NewService creates dashboard service
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// GetStats returns the four dashboard counters. Each aggregate is
// best-effort; a failing counter stays zero instead of failing the page.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	// Revenue counts paid bookings that were not cancelled
	_ = s.db.GetContext(ctx, &stats.TotalRevenue, `
		SELECT COALESCE(SUM(total_amount), 0) FROM bookings
		WHERE payment_status = 'paid' AND status != 'cancelled'
	`)

	_ = s.db.GetContext(ctx, &stats.ActiveRentals, `
		SELECT COUNT(*) FROM bookings WHERE status = 'active'
	`)

	_ = s.db.GetContext(ctx, &stats.AvailableItems, `
		SELECT COUNT(*) FROM items WHERE status = 'available'
	`)

	// Overdue is derived at read time: bookings flagged overdue plus
	// active ones whose end date has passed
	_ = s.db.GetContext(ctx, &stats.OverdueReturns, `
		SELECT COUNT(*) FROM bookings
		WHERE status = 'overdue'
		   OR (status = 'active' AND end_date < NOW())
	`)

	return stats, nil
}
