package domain

import (
	"sync"
	"time"
)

// JoinRequest represents a pending join request entity
type JoinRequest struct {
	UserID      int64
	ChatID      int64
	ChatTitle   string
	ChatType    ChatType
	RequestedAt time.Time
	User        UserProfile
	TimerID     string // handle of the scheduled auto-approval
}

type pendingKey struct {
	userID int64
	chatID int64
}

// PendingTable tracks in-flight join requests awaiting approval, keyed by
// (user, chat). A new request for the same pair overwrites the prior one.
type PendingTable struct {
	mu       sync.Mutex
	requests map[pendingKey]*JoinRequest
}

// NewPendingTable creates an empty pending table
func NewPendingTable() *PendingTable {
	return &PendingTable{requests: make(map[pendingKey]*JoinRequest)}
}

// Put inserts or overwrites by (user, chat) key and returns the displaced
// request, if any, so its timer can be cancelled.
func (t *PendingTable) Put(req *JoinRequest) *JoinRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := pendingKey{req.UserID, req.ChatID}
	prior := t.requests[key]
	t.requests[key] = req
	return prior
}

// Remove atomically pops the request for (user, chat), returning nil if absent
func (t *PendingTable) Remove(userID, chatID int64) *JoinRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := pendingKey{userID, chatID}
	req := t.requests[key]
	delete(t.requests, key)
	return req
}

// Contains reports whether a request for (user, chat) is pending
func (t *PendingTable) Contains(userID, chatID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.requests[pendingKey{userID, chatID}]
	return ok
}

// Len returns the number of pending requests
func (t *PendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}
