package repo

import (
	"context"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
)

// StatsRepo is the statistics persistence interface.
// Responsible for round-tripping the stats snapshot to durable storage (SQLite).
type StatsRepo interface {
	// Load reads the last persisted snapshot. A missing or partially-invalid
	// database yields an empty snapshot, not an error.
	Load(ctx context.Context) (*domain.StoreSnapshot, error)

	// Save persists the snapshot, replacing the previous one
	Save(ctx context.Context, snap *domain.StoreSnapshot) error

	// Close releases the underlying database
	Close() error
}
