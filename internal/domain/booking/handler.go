package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/middleware"
	"github.com/costumehub/costumehub-api/internal/pkg/response"
	"github.com/costumehub/costumehub-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/bookings (public checkout)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Create(r.Context(), &req)
	if err != nil {
		var unavailable *UnavailableItemsError
		var badDate *InvalidDateError
		switch {
		case errors.As(err, &unavailable):
			response.ConflictWithDetails(w, "Some items are no longer available",
				map[string]string{"unavailable_items": strings.Join(unavailable.Names, ", ")})
		case errors.As(err, &badDate):
			response.ValidationError(w, map[string]string{badDate.Field: "must be an RFC 3339 timestamp or YYYY-MM-DD date"})
		case errors.Is(err, ErrInvalidDateRange):
			response.ValidationError(w, map[string]string{"end_date": "must be after start_date"})
		case errors.Is(err, ErrUnknownItem):
			response.ValidationError(w, map[string]string{"items": "referenced item does not exist"})
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ResponseFromEntity(b))
}

// List handles GET /api/admin/bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ResponseFromEntity(b))
	}
	response.OK(w, out)
}

func filterFromQuery(r *http.Request) (*Filter, error) {
	filter := &Filter{}
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		if err := validator.ValidateVar(v, "booking_status"); err != nil {
			return nil, errors.New("invalid status")
		}
		s := Status(v)
		filter.Status = &s
	}
	if v := q.Get("payment_status"); v != "" {
		if err := validator.ValidateVar(v, "payment_status"); err != nil {
			return nil, errors.New("invalid payment_status")
		}
		p := PaymentStatus(v)
		filter.PaymentStatus = &p
	}

	return filter, nil
}

// GetByID handles GET /api/admin/bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.NotFound(w, "Booking not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ResponseFromEntity(b))
}

// UpdateStatus handles PATCH /api/admin/bookings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, ErrInvalidStatusTransition):
			response.Conflict(w, "Status transition not allowed")
		default:
			response.InternalError(w)
		}
		return
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("status", string(b.Status)).
		Str("admin", middleware.GetAdminEmail(r.Context())).
		Msg("Booking status updated")

	response.OK(w, ResponseFromEntity(b))
}

// UpdatePayment handles PATCH /api/admin/bookings/{id}/payment
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.UpdatePaymentStatus(r.Context(), id, PaymentStatus(req.PaymentStatus))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, ErrInvalidPaymentChange):
			response.Conflict(w, "Payment status change not allowed")
		default:
			response.InternalError(w)
		}
		return
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("payment_status", string(b.PaymentStatus)).
		Str("admin", middleware.GetAdminEmail(r.Context())).
		Msg("Booking payment status updated")

	response.OK(w, ResponseFromEntity(b))
}
