package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"replaystats/internal/pkg/config"
	"replaystats/internal/pkg/models"
)

// Ensure PostgresSummaryStorage implements SummaryStorage
var _ SummaryStorage = (*PostgresSummaryStorage)(nil)

// PostgresSummaryStorage stores summary rows in PostgreSQL
type PostgresSummaryStorage struct {
	db *sql.DB
}

// NewPostgresSummaryStorage opens the connection and prepares the schema
func NewPostgresSummaryStorage(cfg *config.PostgresConfig) (*PostgresSummaryStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	storage := &PostgresSummaryStorage{db: db}

	if err := storage.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL summary storage initialized")
	return storage, nil
}

func (s *PostgresSummaryStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS replay_summaries (
		group_id VARCHAR(100) NOT NULL,
		replay_id VARCHAR(100) NOT NULL,
		replay_date VARCHAR(100) NOT NULL,
		outcome VARCHAR(10) NOT NULL,
		shots INTEGER NOT NULL,
		goals INTEGER NOT NULL,
		saves INTEGER NOT NULL,
		assists INTEGER NOT NULL,
		demos INTEGER NOT NULL,
		boost_bpm DECIMAL(10, 2) NOT NULL,
		avg_speed DECIMAL(10, 2) NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (group_id, replay_id)
	);

	CREATE INDEX IF NOT EXISTS idx_replay_summaries_group ON replay_summaries(group_id);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreRows upserts every row for the group in one transaction so a
// re-run refreshes the stored stats atomically.
func (s *PostgresSummaryStorage) StoreRows(ctx context.Context, groupID string, rows []models.SummaryRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO replay_summaries (
		group_id, replay_id, replay_date, outcome,
		shots, goals, saves, assists, demos, boost_bpm, avg_speed, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	ON CONFLICT (group_id, replay_id) DO UPDATE SET
		replay_date = EXCLUDED.replay_date,
		outcome = EXCLUDED.outcome,
		shots = EXCLUDED.shots,
		goals = EXCLUDED.goals,
		saves = EXCLUDED.saves,
		assists = EXCLUDED.assists,
		demos = EXCLUDED.demos,
		boost_bpm = EXCLUDED.boost_bpm,
		avg_speed = EXCLUDED.avg_speed,
		updated_at = NOW()
	`

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, query,
			groupID,
			row.ReplayID,
			row.Date,
			string(row.Outcome),
			row.Shots,
			row.Goals,
			row.Saves,
			row.Assists,
			row.Demos,
			row.BoostBPM,
			row.AvgSpeed,
		); err != nil {
			return fmt.Errorf("failed to store summary row %s: %w", row.ReplayID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary rows: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresSummaryStorage) Close() error {
	return s.db.Close()
}
