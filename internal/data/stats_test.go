package data

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
)

func TestStatsRepo_SaveLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	ctx := context.Background()

	statsRepo, err := NewStatsRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repo: %v", err)
	}

	store := domain.NewStatsStore()
	store.RecordRequest(100, "Alpha")
	store.RecordRequest(100, "Alpha")
	store.RecordApproved(100)
	store.RecordLeft(200, "Beta")
	store.Track(300)

	if err := statsRepo.Save(ctx, store.Snapshot()); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := statsRepo.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	// Reopen like a process restart would
	reopened, err := NewStatsRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen repo: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if len(loaded.Chats) != 2 {
		t.Fatalf("Loaded %d chats, want 2", len(loaded.Chats))
	}
	alpha := loaded.Chats[100]
	if alpha.Title != "Alpha" {
		t.Errorf("Chat 100 title = %q, want Alpha", alpha.Title)
	}
	if alpha.Hourly.Requests != 2 || alpha.Period.Requests != 2 {
		t.Errorf("Chat 100 rolling requests = %d/%d, want 2/2", alpha.Hourly.Requests, alpha.Period.Requests)
	}
	if alpha.Lifetime.Requests != 2 || alpha.Lifetime.Approved != 1 {
		t.Errorf("Chat 100 lifetime = %+v", alpha.Lifetime)
	}
	if alpha.LastActivity.IsZero() {
		t.Error("Chat 100 last activity should survive the round trip")
	}
	beta := loaded.Chats[200]
	if beta.Hourly.Left != 1 || beta.Lifetime.Left != 1 {
		t.Errorf("Chat 200 left counters = %d/%d, want 1/1", beta.Hourly.Left, beta.Lifetime.Left)
	}

	if loaded.Global.Lifetime.Requests != 2 || loaded.Global.Lifetime.Approved != 1 || loaded.Global.Lifetime.Left != 1 {
		t.Errorf("Global lifetime = %+v", loaded.Global.Lifetime)
	}

	if len(loaded.Tracked) != 3 {
		t.Fatalf("Loaded %d tracked chats, want 3", len(loaded.Tracked))
	}
	tracked := make(map[int64]bool)
	for _, id := range loaded.Tracked {
		tracked[id] = true
	}
	for _, id := range []int64{100, 200, 300} {
		if !tracked[id] {
			t.Errorf("Chat %d missing from tracked set", id)
		}
	}

	if loaded.LastSaved.IsZero() {
		t.Error("LastSaved should be recorded on save")
	}
}

func TestStatsRepo_LoadFreshDatabaseIsEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	statsRepo, err := NewStatsRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repo: %v", err)
	}
	defer statsRepo.Close()

	snap, err := statsRepo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on a fresh database failed: %v", err)
	}
	if len(snap.Chats) != 0 || len(snap.Tracked) != 0 {
		t.Errorf("Fresh database should load empty, got %d chats, %d tracked", len(snap.Chats), len(snap.Tracked))
	}
	if snap.Global.Lifetime.Requests != 0 {
		t.Errorf("Fresh global stats should be zero, got %+v", snap.Global)
	}
}

func TestStatsRepo_SaveReplacesPreviousSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	ctx := context.Background()

	statsRepo, err := NewStatsRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repo: %v", err)
	}
	defer statsRepo.Close()

	first := domain.NewStatsStore()
	first.RecordRequest(100, "Alpha")
	if err := statsRepo.Save(ctx, first.Snapshot()); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}

	// The second snapshot no longer knows chat 100 at all
	second := domain.NewStatsStore()
	second.RecordRequest(200, "Beta")
	if err := statsRepo.Save(ctx, second.Snapshot()); err != nil {
		t.Fatalf("Failed to save second snapshot: %v", err)
	}

	loaded, err := statsRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if _, ok := loaded.Chats[100]; ok {
		t.Error("Save must replace the previous snapshot, chat 100 still present")
	}
	if _, ok := loaded.Chats[200]; !ok {
		t.Error("Chat 200 missing after save")
	}
	if len(loaded.Tracked) != 1 || loaded.Tracked[0] != 200 {
		t.Errorf("Tracked = %v, want [200]", loaded.Tracked)
	}
}

func TestStatsRepo_RestoreIntoStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	ctx := context.Background()

	statsRepo, err := NewStatsRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repo: %v", err)
	}
	defer statsRepo.Close()

	origin := domain.NewStatsStore()
	origin.RecordRequest(100, "Alpha")
	origin.RecordApproved(100)
	if err := statsRepo.Save(ctx, origin.Snapshot()); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := statsRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	restored := domain.NewStatsStore()
	restored.Restore(loaded)

	if !restored.IsTracked(100) {
		t.Error("Restored store should track the persisted chat")
	}
	snap := restored.Snapshot()
	if snap.Chats[100].Lifetime.Approved != 1 {
		t.Errorf("Restored approved = %d, want 1", snap.Chats[100].Lifetime.Approved)
	}

	// Counting continues on top of the restored state
	restored.RecordRequest(100, "Alpha")
	if got := restored.Snapshot().Chats[100].Lifetime.Requests; got != 2 {
		t.Errorf("Lifetime requests after restore+record = %d, want 2", got)
	}
}

func TestStatsRepo_LastSavedPreserved(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	ctx := context.Background()

	statsRepo, err := NewStatsRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repo: %v", err)
	}
	defer statsRepo.Close()

	saved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := &domain.StoreSnapshot{
		Chats:     map[int64]domain.ChatStats{},
		LastSaved: saved,
	}
	if err := statsRepo.Save(ctx, snap); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := statsRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if !loaded.LastSaved.Equal(saved) {
		t.Errorf("LastSaved = %v, want %v", loaded.LastSaved, saved)
	}
}
