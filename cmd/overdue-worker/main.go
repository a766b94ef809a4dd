package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/config"
	"github.com/costumehub/costumehub-api/internal/pkg/database"
)

const pollInterval = 5 * time.Minute

// Flags active bookings whose end date has passed as overdue. The
// dashboard also derives overdue counts at read time, so a worker
// outage never hides late returns; this keeps the stored status and
// the booking list in sync for the admin views.
func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().Msg("Starting overdue-worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutting down overdue-worker")
		cancel()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sweep(ctx, db)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, db)
		}
	}
}

func sweep(ctx context.Context, db *sqlx.DB) {
	res, err := db.ExecContext(ctx, `
		UPDATE bookings SET status = 'overdue', updated_at = NOW()
		WHERE status = 'active' AND end_date < NOW()
	`)
	if err != nil {
		log.Error().Err(err).Msg("Overdue sweep failed")
		return
	}

	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("flagged", n).Msg("Bookings marked overdue")
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
