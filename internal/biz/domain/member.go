package domain

import (
	"fmt"
	"sync"
)

// ChatType represents the chat type
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// SupportsJoinRequests reports whether join requests are handled for this chat type
func (t ChatType) SupportsJoinRequests() bool {
	switch t {
	case ChatTypeGroup, ChatTypeSupergroup, ChatTypeChannel:
		return true
	}
	return false
}

// MemberStatus represents a user's membership status in a chat
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsOutside reports whether the status means the user is not in the chat
func (s MemberStatus) IsOutside() bool {
	return s == StatusLeft || s == StatusKicked
}

// IsActive reports whether the status counts as chat membership
func (s MemberStatus) IsActive() bool {
	return s == StatusMember || s == StatusAdministrator || s == StatusCreator
}

// IsAdmin reports whether the status grants administrator rights
func (s MemberStatus) IsAdmin() bool {
	return s == StatusAdministrator || s == StatusCreator
}

// MemberUpdate represents a membership status change event
type MemberUpdate struct {
	ChatID    int64
	ChatTitle string
	ChatType  ChatType
	User      UserProfile
	OldStatus MemberStatus
	NewStatus MemberStatus
}

// BecameActive reports a left/kicked -> member/administrator/creator transition
func (u *MemberUpdate) BecameActive() bool {
	return u.OldStatus.IsOutside() && u.NewStatus.IsActive()
}

// Departed reports a member/administrator -> left/kicked transition
func (u *MemberUpdate) Departed() bool {
	return (u.OldStatus == StatusMember || u.OldStatus == StatusAdministrator) &&
		u.NewStatus.IsOutside()
}

// UserProfile is a snapshot of user identity taken from a platform event
type UserProfile struct {
	ID        int64
	FirstName string
	LastName  string // optional
	Username  string // optional, without @
	IsBot     bool
}

// FullName returns first and last name joined
func (p *UserProfile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Mention formats an in-text Markdown user reference
func (p *UserProfile) Mention() string {
	return fmt.Sprintf("[%s](tg://user?id=%d)", p.FirstName, p.ID)
}

// ApprovedSet tracks users approved by the bot that have not yet been
// observed joining. Entries are consumed one-shot by Take; a user that never
// completes the join stays in the set until restart.
type ApprovedSet struct {
	mu    sync.Mutex
	users map[int64]struct{}
}

// NewApprovedSet creates an empty approved set
func NewApprovedSet() *ApprovedSet {
	return &ApprovedSet{users: make(map[int64]struct{})}
}

// Add marks a user as approved
func (s *ApprovedSet) Add(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
}

// Take removes the user and reports whether it was present
func (s *ApprovedSet) Take(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return false
	}
	delete(s.users, userID)
	return true
}

// Contains reports whether the user is in the set
func (s *ApprovedSet) Contains(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	return ok
}
