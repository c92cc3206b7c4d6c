package storage

import (
	"context"

	"replaystats/internal/pkg/models"
)

// SummaryStorage mirrors extracted summary rows into a database.
type SummaryStorage interface {
	// StoreRows upserts all rows for one replay group
	StoreRows(ctx context.Context, groupID string, rows []models.SummaryRow) error

	// Close closes the database connection
	Close() error
}
