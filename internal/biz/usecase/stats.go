package usecase

import (
	"context"
	"fmt"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/repo"
)

// StatsUsecase round-trips the stats store to durable storage
type StatsUsecase struct {
	store     *domain.StatsStore
	statsRepo repo.StatsRepo
}

// NewStatsUsecase creates a new stats usecase
func NewStatsUsecase(store *domain.StatsStore, statsRepo repo.StatsRepo) *StatsUsecase {
	return &StatsUsecase{store: store, statsRepo: statsRepo}
}

// Load restores the store from the persisted snapshot. A load failure starts
// the store empty rather than blocking startup.
func (uc *StatsUsecase) Load(ctx context.Context) {
	snap, err := uc.statsRepo.Load(ctx)
	if err != nil {
		fmt.Printf("[Stats] Failed to load persisted stats, starting empty: %v\n", err)
		uc.store.Restore(nil)
		return
	}
	uc.store.Restore(snap)
	fmt.Printf("[Stats] Restored stats for %d chats (%d tracked)\n", len(snap.Chats), len(snap.Tracked))
}

// Persist saves the current store state without resetting any counters
func (uc *StatsUsecase) Persist(ctx context.Context) error {
	if err := uc.statsRepo.Save(ctx, uc.store.Snapshot()); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}
	return nil
}
