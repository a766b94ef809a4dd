package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/config"
	"github.com/costumehub/costumehub-api/internal/domain/category"
	"github.com/costumehub/costumehub-api/internal/pkg/database"
)

// Seeds the default category set. Safe to run repeatedly; existing
// categories are left untouched.
func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := category.NewRepository(db)
	result, err := category.Seed(ctx, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Msg("Category seeding finished")
}
