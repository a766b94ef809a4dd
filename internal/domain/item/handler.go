package item

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/costumehub/costumehub-api/internal/domain/category"
	"github.com/costumehub/costumehub-api/internal/pkg/response"
	"github.com/costumehub/costumehub-api/internal/pkg/validator"
)

const maxImageUploadBytes = 10 << 20 // 10 MiB

// Handler handles item HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates item handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListCostumes handles GET /api/costumes
func (h *Handler) ListCostumes(w http.ResponseWriter, r *http.Request) {
	h.listByType(w, r, category.TypeCostume)
}

// ListAccessories handles GET /api/accessories
func (h *Handler) ListAccessories(w http.ResponseWriter, r *http.Request) {
	h.listByType(w, r, category.TypeAccessory)
}

func (h *Handler) listByType(w http.ResponseWriter, r *http.Request, typ category.Type) {
	filter, err := filterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	filter.CategoryType = &typ

	h.list(w, r, filter)
}

// ListAll handles GET /api/admin/items
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	h.list(w, r, filter)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, filter *Filter) {
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]*ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ResponseFromEntity(i))
	}
	response.OK(w, out)
}

// filterFromQuery builds an exact-match filter from query parameters
func filterFromQuery(r *http.Request) (*Filter, error) {
	filter := &Filter{}
	q := r.URL.Query()

	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}
	if v := q.Get("size"); v != "" {
		filter.Size = &v
	}
	if v := q.Get("theme"); v != "" {
		filter.Theme = &v
	}
	if v := q.Get("status"); v != "" {
		if err := validator.ValidateVar(v, "item_status"); err != nil {
			return nil, errors.New("invalid status")
		}
		s := Status(v)
		filter.Status = &s
	}

	return filter, nil
}

// GetByID handles GET /api/items/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			response.NotFound(w, "Item not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ResponseFromEntity(item))
}

// Create handles POST /api/admin/items
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			response.BadRequest(w, "Referenced category does not exist")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, ResponseFromEntity(item))
}

// Update handles PUT /api/admin/items/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			response.NotFound(w, "Item not found")
		case errors.Is(err, ErrInvalidCategory):
			response.BadRequest(w, "Referenced category does not exist")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(item))
}

// Delete handles DELETE /api/admin/items/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			response.NotFound(w, "Item not found")
		case errors.Is(err, ErrItemHasBookings):
			response.Conflict(w, "Item is referenced by bookings")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// UploadImage handles POST /api/admin/items/{id}/image (multipart form, field "image")
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	item, err := h.service.UploadImage(r.Context(), id, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			response.NotFound(w, "Item not found")
		case errors.Is(err, ErrUnsupportedImageType):
			response.BadRequest(w, "Unsupported image type")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(item))
}
