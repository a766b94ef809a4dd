package category

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/costumehub/costumehub-api/internal/pkg/response"
	"github.com/costumehub/costumehub-api/internal/pkg/validator"
)

// Handler handles category HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates category handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /api/admin/categories
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var typ *Type
	if t := r.URL.Query().Get("type"); t != "" {
		if t != string(TypeCostume) && t != string(TypeAccessory) {
			response.BadRequest(w, "Invalid category type")
			return
		}
		v := Type(t)
		typ = &v
	}

	categories, err := h.repo.List(r.Context(), typ)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, ResponseFromEntity(c))
	}
	response.OK(w, out)
}

// Create handles POST /api/admin/categories
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	now := time.Now()
	c := &Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: nullString(req.Description),
		Type:        Type(req.Type),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(r.Context(), c); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			response.Conflict(w, "A category with this name already exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, ResponseFromEntity(c))
}

// Update handles PUT /api/admin/categories/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	if c == nil {
		response.NotFound(w, "Category not found")
		return
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Description != nil {
		c.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Type != "" {
		c.Type = Type(req.Type)
	}

	if err := h.repo.Update(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateName):
			response.Conflict(w, "A category with this name already exists")
		case errors.Is(err, ErrCategoryNotFound):
			response.NotFound(w, "Category not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(c))
}

// Delete handles DELETE /api/admin/categories/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrCategoryInUse):
			response.Conflict(w, "Category is still referenced by items")
		case errors.Is(err, ErrCategoryNotFound):
			response.NotFound(w, "Category not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
