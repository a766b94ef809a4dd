package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/pkg/password"
)

// Service handles admin account logic
type Service struct {
	repo Repository
}

// NewService creates admin service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks credentials and returns the matching account.
// A missing account, a deactivated one and a wrong password all return
// the same error.
func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*Admin, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(plaintext, a.PasswordHash) {
		log.Warn().Str("email", email).Msg("failed admin login attempt")
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, a.ID); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to record login time")
	}

	return a, nil
}

// GetByID returns admin account by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAdminNotFound
	}
	return a, nil
}
