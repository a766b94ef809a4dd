package item

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the storefront item router
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetByID)

	return r
}

// AdminRoutes returns the admin item router
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/image", h.UploadImage)

	return r
}
