package domain

import (
	"sort"
	"sync"
	"time"
)

// Window identifies a rolling statistics window
type Window int

const (
	WindowHourly Window = iota
	WindowPeriod
)

// String returns the window name
func (w Window) String() string {
	if w == WindowHourly {
		return "hourly"
	}
	return "period"
}

// RollingCounters are statistics that reset with their window
type RollingCounters struct {
	Requests int64
	Left     int64
}

// LifetimeCounters are statistics that never reset
type LifetimeCounters struct {
	Requests int64
	Approved int64
	Left     int64
}

// ChatStats holds per-chat statistics
type ChatStats struct {
	ChatID       int64
	Title        string
	Hourly       RollingCounters
	Period       RollingCounters
	Lifetime     LifetimeCounters
	LastActivity time.Time
}

// GlobalStats is the aggregate over all chats, maintained incrementally
type GlobalStats struct {
	Hourly   RollingCounters
	Period   RollingCounters
	Lifetime LifetimeCounters
}

// ChatWindowStats is a per-chat slice of a window snapshot
type ChatWindowStats struct {
	ChatID   int64
	Title    string
	Requests int64
	Left     int64
	Lifetime LifetimeCounters
}

// WindowSnapshot is an immutable copy of one rolling window's counters,
// taken at reset time
type WindowSnapshot struct {
	Window   Window
	TakenAt  time.Time
	Requests int64
	Left     int64
	Lifetime LifetimeCounters
	Chats    []ChatWindowStats // sorted by chat ID
}

// Empty reports whether the window saw no requests and no departures
func (s *WindowSnapshot) Empty() bool {
	return s.Requests == 0 && s.Left == 0
}

// StoreSnapshot is the full serializable state of a StatsStore
type StoreSnapshot struct {
	Chats     map[int64]ChatStats
	Global    GlobalStats
	Tracked   []int64
	LastSaved time.Time
}

// StatsStore owns all mutable statistics state: per-chat stats, the global
// aggregate, and the tracked chat set. All mutation goes through its methods,
// each atomic with respect to concurrent callers.
type StatsStore struct {
	mu      sync.Mutex
	chats   map[int64]*ChatStats
	global  GlobalStats
	tracked map[int64]struct{}
}

// NewStatsStore creates an empty stats store
func NewStatsStore() *StatsStore {
	return &StatsStore{
		chats:   make(map[int64]*ChatStats),
		tracked: make(map[int64]struct{}),
	}
}

// ensureChat lazily creates chat stats; caller must hold the lock.
// Every chat with stats is also tracked.
func (s *StatsStore) ensureChat(chatID int64, title string) *ChatStats {
	cs, ok := s.chats[chatID]
	if !ok {
		cs = &ChatStats{ChatID: chatID}
		s.chats[chatID] = cs
	}
	if title != "" {
		cs.Title = title
	}
	s.tracked[chatID] = struct{}{}
	return cs
}

// RecordRequest counts a new join request for the chat and globally
func (s *StatsStore) RecordRequest(chatID int64, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.ensureChat(chatID, title)
	cs.Hourly.Requests++
	cs.Period.Requests++
	cs.Lifetime.Requests++
	cs.LastActivity = time.Now()
	s.global.Hourly.Requests++
	s.global.Period.Requests++
	s.global.Lifetime.Requests++
}

// RecordApproved counts a successful auto-approval for the chat and globally
func (s *StatsStore) RecordApproved(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.ensureChat(chatID, "")
	cs.Lifetime.Approved++
	cs.LastActivity = time.Now()
	s.global.Lifetime.Approved++
}

// RecordLeft counts a departure for the chat and globally
func (s *StatsStore) RecordLeft(chatID int64, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.ensureChat(chatID, title)
	cs.Hourly.Left++
	cs.Period.Left++
	cs.Lifetime.Left++
	cs.LastActivity = time.Now()
	s.global.Hourly.Left++
	s.global.Period.Left++
	s.global.Lifetime.Left++
}

// Track adds a chat to the tracked set
func (s *StatsStore) Track(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked[chatID] = struct{}{}
}

// Untrack removes a chat that the platform reports as inaccessible
func (s *StatsStore) Untrack(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tracked, chatID)
}

// IsTracked reports whether the chat is in the tracked set
func (s *StatsStore) IsTracked(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tracked[chatID]
	return ok
}

// TrackedChats returns the tracked chat IDs in stable order
func (s *StatsStore) TrackedChats() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SnapshotAndResetRolling returns an immutable copy of the given window's
// counters and zeroes only that window. Lifetime counters are never reset.
func (s *StatsStore) SnapshotAndResetRolling(w Window) *WindowSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &WindowSnapshot{
		Window:   w,
		TakenAt:  time.Now(),
		Lifetime: s.global.Lifetime,
	}

	for _, cs := range s.chats {
		var rolling *RollingCounters
		if w == WindowHourly {
			rolling = &cs.Hourly
		} else {
			rolling = &cs.Period
		}
		if rolling.Requests != 0 || rolling.Left != 0 {
			snap.Chats = append(snap.Chats, ChatWindowStats{
				ChatID:   cs.ChatID,
				Title:    cs.Title,
				Requests: rolling.Requests,
				Left:     rolling.Left,
				Lifetime: cs.Lifetime,
			})
		}
		*rolling = RollingCounters{}
	}
	sort.Slice(snap.Chats, func(i, j int) bool { return snap.Chats[i].ChatID < snap.Chats[j].ChatID })

	if w == WindowHourly {
		snap.Requests = s.global.Hourly.Requests
		snap.Left = s.global.Hourly.Left
		s.global.Hourly = RollingCounters{}
	} else {
		snap.Requests = s.global.Period.Requests
		snap.Left = s.global.Period.Left
		s.global.Period = RollingCounters{}
	}
	return snap
}

// Snapshot returns a full copy of the store state for persistence or reporting
func (s *StatsStore) Snapshot() *StoreSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &StoreSnapshot{
		Chats:     make(map[int64]ChatStats, len(s.chats)),
		Global:    s.global,
		LastSaved: time.Now(),
	}
	for id, cs := range s.chats {
		snap.Chats[id] = *cs
	}
	for id := range s.tracked {
		snap.Tracked = append(snap.Tracked, id)
	}
	sort.Slice(snap.Tracked, func(i, j int) bool { return snap.Tracked[i] < snap.Tracked[j] })
	return snap
}

// Restore replaces the store state from a persisted snapshot. A nil snapshot
// or missing fields leave the store empty rather than failing.
func (s *StatsStore) Restore(snap *StoreSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats = make(map[int64]*ChatStats)
	s.tracked = make(map[int64]struct{})
	s.global = GlobalStats{}
	if snap == nil {
		return
	}

	for id, cs := range snap.Chats {
		copied := cs
		copied.ChatID = id
		s.chats[id] = &copied
		s.tracked[id] = struct{}{}
	}
	for _, id := range snap.Tracked {
		s.tracked[id] = struct{}{}
	}
	s.global = snap.Global
}
