package domain

import (
	"testing"
	"time"
)

func newRequest(userID, chatID int64, first string) *JoinRequest {
	return &JoinRequest{
		UserID:      userID,
		ChatID:      chatID,
		ChatTitle:   "Alpha",
		ChatType:    ChatTypeSupergroup,
		RequestedAt: time.Now(),
		User:        UserProfile{ID: userID, FirstName: first},
	}
}

func TestPendingTable_PutAndContains(t *testing.T) {
	table := NewPendingTable()

	if table.Contains(1, 100) {
		t.Error("Empty table should not contain anything")
	}

	if prior := table.Put(newRequest(1, 100, "Anna")); prior != nil {
		t.Errorf("First Put should displace nothing, got %+v", prior)
	}

	if !table.Contains(1, 100) {
		t.Error("Expected request to be pending after Put")
	}
	if table.Contains(1, 200) {
		t.Error("Same user in a different chat should not be pending")
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
}

func TestPendingTable_OverwriteKeepsLatest(t *testing.T) {
	table := NewPendingTable()

	first := newRequest(1, 100, "Anna")
	first.TimerID = "timer-1"
	table.Put(first)

	second := newRequest(1, 100, "Anna B")
	second.TimerID = "timer-2"
	prior := table.Put(second)

	if prior == nil || prior.TimerID != "timer-1" {
		t.Fatalf("Put should return the displaced request, got %+v", prior)
	}
	if table.Len() != 1 {
		t.Errorf("Overwrite must not grow the table, Len = %d", table.Len())
	}

	got := table.Remove(1, 100)
	if got == nil || got.User.FirstName != "Anna B" {
		t.Errorf("Only the latest request should be retained, got %+v", got)
	}
}

func TestPendingTable_RemoveIsAtomicPop(t *testing.T) {
	table := NewPendingTable()
	table.Put(newRequest(1, 100, "Anna"))

	if got := table.Remove(1, 100); got == nil {
		t.Fatal("Remove should return the pending request")
	}
	if table.Contains(1, 100) {
		t.Error("Request should be gone after Remove")
	}
	if got := table.Remove(1, 100); got != nil {
		t.Errorf("Second Remove should find nothing, got %+v", got)
	}
}

func TestPendingTable_SameUserDifferentChats(t *testing.T) {
	table := NewPendingTable()
	table.Put(newRequest(1, 100, "Anna"))
	table.Put(newRequest(1, 200, "Anna"))

	if table.Len() != 2 {
		t.Errorf("Requests in different chats are independent, Len = %d", table.Len())
	}
	table.Remove(1, 100)
	if !table.Contains(1, 200) {
		t.Error("Removing one chat's request must not touch the other")
	}
}
