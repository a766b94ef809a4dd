package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/config"
	"github.com/costumehub/costumehub-api/internal/domain/admin"
	"github.com/costumehub/costumehub-api/internal/pkg/database"
	"github.com/costumehub/costumehub-api/internal/pkg/password"
)

// Creates a dashboard admin account. There is no self-service signup;
// operators bootstrap accounts with this tool.
func main() {
	email := flag.String("email", "", "admin email (required)")
	pwd := flag.String("password", "", "admin password (required, min 8 chars)")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *email == "" || len(*pwd) < 8 {
		log.Fatal().Msg("Usage: createadmin -email admin@example.com -password <min 8 chars> [-name \"Store Manager\"]")
	}

	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	hash, err := password.Hash(*pwd)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	account := &admin.Admin{
		ID:           uuid.New(),
		Email:        *email,
		PasswordHash: hash,
		Name:         *name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	repo := admin.NewRepository(db)
	if err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, admin.ErrDuplicateEmail) {
			log.Fatal().Str("email", *email).Msg("An admin with this email already exists")
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	log.Info().
		Str("id", account.ID.String()).
		Str("email", account.Email).
		Msg("Admin account created")
}
