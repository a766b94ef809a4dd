package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/costumehub/costumehub-api/internal/domain/item"
)

type fakeRepo struct {
	bookings  map[uuid.UUID]*Booking
	created   int
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[uuid.UUID]*Booking{}}
}

func (f *fakeRepo) Create(ctx context.Context, b *Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.bookings[b.ID] = b
	f.created++
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeRepo) List(ctx context.Context, filter *Filter) ([]*Booking, error) {
	out := []*Booking{}
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, p PaymentStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.PaymentStatus = p
	return nil
}

type fakeItems struct {
	items map[uuid.UUID]*item.Item
}

func (f *fakeItems) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	return f.items[id], nil
}

func seedItem(f *fakeItems, name string, price float64) uuid.UUID {
	id := uuid.New()
	f.items[id] = &item.Item{
		ID:          id,
		Name:        name,
		PricePerDay: price,
		Status:      item.StatusAvailable,
	}
	return id
}

func newService() (*Service, *fakeRepo, *fakeItems) {
	repo := newFakeRepo()
	items := &fakeItems{items: map[uuid.UUID]*item.Item{}}
	return NewService(repo, items), repo, items
}

func TestCreateComputesTotalsServerSide(t *testing.T) {
	svc, repo, items := newService()
	id := seedItem(items, "Vampire Cape", 500)

	req := &CreateBookingRequest{
		CustomerName:  "Aigerim Satpayeva",
		CustomerEmail: "aigerim@example.com",
		StartDate:     "2026-09-10",
		EndDate:       "2026-09-13",
		Items: []BookingItemRequest{
			{ItemID: id.String(), Quantity: 2},
		},
		// Forged client total must be ignored
		TotalAmount: 1,
	}

	b, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 500/day x 2 qty x 3 days
	if b.TotalAmount != 3000 {
		t.Errorf("expected total 3000, got %v", b.TotalAmount)
	}
	if b.SecurityDeposit != 1000 {
		t.Errorf("expected deposit 1000, got %v", b.SecurityDeposit)
	}
	if b.Days() != 3 {
		t.Errorf("expected 3 days, got %d", b.Days())
	}
	if b.Status != StatusActive || b.PaymentStatus != PaymentPending {
		t.Errorf("unexpected initial state: %s / %s", b.Status, b.PaymentStatus)
	}
	if repo.created != 1 {
		t.Errorf("expected 1 persisted booking, got %d", repo.created)
	}
	if b.Items[0].PricePerDay != 500 {
		t.Errorf("expected price snapshot 500, got %v", b.Items[0].PricePerDay)
	}
}

func TestCreateRoundsPartialDaysUp(t *testing.T) {
	svc, _, items := newService()
	id := seedItem(items, "Pirate Hat", 100)

	req := &CreateBookingRequest{
		CustomerName:  "Test Customer",
		CustomerEmail: "test@example.com",
		StartDate:     "2026-09-10T10:00:00Z",
		EndDate:       "2026-09-12T18:00:00Z",
		Items:         []BookingItemRequest{{ItemID: id.String(), Quantity: 1}},
	}

	b, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// 2 days 8 hours charges 3 days
	if b.TotalAmount != 300 {
		t.Errorf("expected total 300, got %v", b.TotalAmount)
	}
}

func TestCreateMergesDuplicateLines(t *testing.T) {
	svc, _, items := newService()
	id := seedItem(items, "Witch Broom", 50)

	req := &CreateBookingRequest{
		CustomerName:  "Test Customer",
		CustomerEmail: "test@example.com",
		StartDate:     "2026-09-10",
		EndDate:       "2026-09-11",
		Items: []BookingItemRequest{
			{ItemID: id.String(), Quantity: 1},
			{ItemID: id.String(), Quantity: 2},
		},
	}

	b, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(b.Items) != 1 {
		t.Fatalf("expected merged single line, got %d", len(b.Items))
	}
	if b.Items[0].Quantity != 3 {
		t.Errorf("expected merged quantity 3, got %d", b.Items[0].Quantity)
	}
}

func TestCreateRejectsBadDatesWithoutPersisting(t *testing.T) {
	svc, repo, items := newService()
	id := seedItem(items, "Knight Armor", 900)

	cases := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"garbage start", "next tuesday", "2026-09-13", ErrInvalidDateFormat},
		{"garbage end", "2026-09-10", "soon", ErrInvalidDateFormat},
		{"end before start", "2026-09-13", "2026-09-10", ErrInvalidDateRange},
		{"end equals start", "2026-09-10", "2026-09-10", ErrInvalidDateRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &CreateBookingRequest{
				CustomerName:  "Test Customer",
				CustomerEmail: "test@example.com",
				StartDate:     tc.start,
				EndDate:       tc.end,
				Items:         []BookingItemRequest{{ItemID: id.String(), Quantity: 1}},
			}
			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if repo.created != 0 {
		t.Errorf("expected nothing persisted, got %d bookings", repo.created)
	}
}

func TestCreateRejectsUnknownItem(t *testing.T) {
	svc, repo, _ := newService()

	req := &CreateBookingRequest{
		CustomerName:  "Test Customer",
		CustomerEmail: "test@example.com",
		StartDate:     "2026-09-10",
		EndDate:       "2026-09-12",
		Items:         []BookingItemRequest{{ItemID: uuid.NewString(), Quantity: 1}},
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	if repo.created != 0 {
		t.Errorf("expected nothing persisted, got %d bookings", repo.created)
	}
}

func TestCreateSurfacesUnavailableItems(t *testing.T) {
	svc, repo, items := newService()
	id := seedItem(items, "Dragon Costume", 1200)
	repo.createErr = &UnavailableItemsError{Names: []string{"Dragon Costume"}}

	req := &CreateBookingRequest{
		CustomerName:  "Test Customer",
		CustomerEmail: "test@example.com",
		StartDate:     "2026-09-10",
		EndDate:       "2026-09-12",
		Items:         []BookingItemRequest{{ItemID: id.String(), Quantity: 1}},
	}

	_, err := svc.Create(context.Background(), req)
	var unavailable *UnavailableItemsError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableItemsError, got %v", err)
	}
	if len(unavailable.Names) != 1 || unavailable.Names[0] != "Dragon Costume" {
		t.Errorf("unexpected names: %v", unavailable.Names)
	}
	if repo.created != 0 {
		t.Errorf("expected nothing persisted, got %d bookings", repo.created)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusOverdue, true},
		{StatusActive, StatusCancelled, true},
		{StatusOverdue, StatusCompleted, true},
		{StatusOverdue, StatusCancelled, true},
		{StatusOverdue, StatusActive, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusActive, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusActive, StatusActive, true},
	}

	for _, tc := range cases {
		err := validateStatusTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("%s -> %s: expected ErrInvalidStatusTransition, got %v", tc.from, tc.to, err)
		}
	}
}

func TestUpdateStatusRejectsTerminalBooking(t *testing.T) {
	svc, repo, _ := newService()
	id := uuid.New()
	repo.bookings[id] = &Booking{ID: id, Status: StatusCompleted, PaymentStatus: PaymentPaid}

	_, err := svc.UpdateStatus(context.Background(), id, StatusCancelled)
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if repo.bookings[id].Status != StatusCompleted {
		t.Errorf("booking status changed despite rejection")
	}
}

func TestUpdatePaymentStatusFollowsLifecycle(t *testing.T) {
	svc, repo, _ := newService()
	id := uuid.New()
	repo.bookings[id] = &Booking{ID: id, Status: StatusActive, PaymentStatus: PaymentPending}

	b, err := svc.UpdatePaymentStatus(context.Background(), id, PaymentPaid)
	if err != nil {
		t.Fatalf("pending -> paid failed: %v", err)
	}
	if b.PaymentStatus != PaymentPaid {
		t.Errorf("expected paid, got %s", b.PaymentStatus)
	}

	if _, err := svc.UpdatePaymentStatus(context.Background(), id, PaymentRefunded); err != nil {
		t.Fatalf("paid -> refunded failed: %v", err)
	}

	_, err = svc.UpdatePaymentStatus(context.Background(), id, PaymentPending)
	if !errors.Is(err, ErrInvalidPaymentChange) {
		t.Errorf("expected ErrInvalidPaymentChange, got %v", err)
	}
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusCompleted)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}
