package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ApproveFunc is invoked when an approval timer fires
type ApproveFunc func(ctx context.Context, userID, chatID int64)

type timerKey struct {
	userID int64
	chatID int64
}

type timerEntry struct {
	id    string
	timer *time.Timer
}

// ApprovalScheduler fires a one-shot approval callback per (user, chat) after
// a delay unless cancelled first. Handles carry a generation ID so a stale
// handle never cancels a newer timer for the same key.
type ApprovalScheduler struct {
	approve ApproveFunc

	mu      sync.Mutex
	timers  map[timerKey]*timerEntry
	stopped bool

	// fireMu serializes callback invocations: duplicate timers for the same
	// key can never run the approval concurrently
	fireMu sync.Mutex
}

// NewApprovalScheduler creates a new approval scheduler
func NewApprovalScheduler(approve ApproveFunc) *ApprovalScheduler {
	return &ApprovalScheduler{
		approve: approve,
		timers:  make(map[timerKey]*timerEntry),
	}
}

// Schedule registers a one-shot approval for (user, chat) and returns a
// cancellation handle. Scheduling again for the same key replaces the
// previous timer.
func (s *ApprovalScheduler) Schedule(userID, chatID int64, delay time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ""
	}

	key := timerKey{userID: userID, chatID: chatID}
	if prev, ok := s.timers[key]; ok {
		prev.timer.Stop()
	}

	id := uuid.NewString()
	entry := &timerEntry{id: id}
	entry.timer = time.AfterFunc(delay, func() {
		s.fire(key, id)
	})
	s.timers[key] = entry
	return id
}

// Cancel stops the timer for the given handle. Cancelling an already-fired,
// already-cancelled, or replaced timer is a no-op.
func (s *ApprovalScheduler) Cancel(handle string) {
	if handle == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.timers {
		if entry.id == handle {
			entry.timer.Stop()
			delete(s.timers, key)
			return
		}
	}
}

// Stop cancels all outstanding timers
func (s *ApprovalScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, key)
	}
	fmt.Println("[Approval] Scheduler stopped")
}

func (s *ApprovalScheduler) fire(key timerKey, id string) {
	s.mu.Lock()
	entry, ok := s.timers[key]
	if !ok || entry.id != id || s.stopped {
		// Cancelled or replaced while the timer was in flight, already handled
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	s.mu.Unlock()

	s.fireMu.Lock()
	defer s.fireMu.Unlock()
	s.approve(context.Background(), key.userID, key.chatID)
}
