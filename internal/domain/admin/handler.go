package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/middleware"
	"github.com/costumehub/costumehub-api/internal/pkg/response"
	"github.com/costumehub/costumehub-api/internal/pkg/session"
	"github.com/costumehub/costumehub-api/internal/pkg/validator"
)

// Handler handles admin auth HTTP requests
type Handler struct {
	service  *Service
	sessions *session.Service
}

// NewHandler creates admin auth handler
func NewHandler(service *Service, sessions *session.Service) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Login handles POST /api/admin/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.InternalError(w)
		return
	}

	if _, err := h.sessions.Issue(w, a.ID, a.Email); err != nil {
		log.Error().Err(err).Msg("failed to issue session")
		response.InternalError(w)
		return
	}

	response.OK(w, ResponseFromEntity(a))
}

// Logout handles POST /api/admin/auth/logout.
// Works with or without a valid session so a stale cookie can always be cleared.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := h.sessions.Validate(r)

	if err := h.sessions.Revoke(r.Context(), w, claims); err != nil {
		log.Error().Err(err).Msg("failed to revoke session")
	}

	response.OK(w, map[string]bool{"logged_out": true})
}

// CurrentUser handles GET /api/admin/auth/user, the session probe the
// dashboard calls on load
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())

	a, err := h.service.GetByID(r.Context(), adminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			response.Unauthorized(w, "Account no longer exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ResponseFromEntity(a))
}

// Routes returns the admin auth router. Login and logout are reachable
// without a session; the session probe sits behind the auth middleware.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/user", h.CurrentUser)
	})

	return r
}
