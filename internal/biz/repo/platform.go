package repo

import (
	"context"
	"errors"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
)

// Platform call failure categories. Transport errors that are none of these
// are transient; the core never retries them.
var (
	// ErrPermissionDenied means the bot lacks rights for the call
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound means the target chat/user/request no longer exists
	ErrNotFound = errors.New("not found")
	// ErrDenied means the requesting user is not authorized for the operation
	ErrDenied = errors.New("denied")
)

// IsInaccessible reports whether the error means the chat cannot be used
// anymore and should be dropped from the tracked set
func IsInaccessible(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotFound)
}

// ChatAdmin represents a chat administrator
type ChatAdmin struct {
	UserID int64
	Name   string
	IsBot  bool
}

// ChatMemberInfo represents one user's membership in a chat
type ChatMemberInfo struct {
	Status domain.MemberStatus
	// CanSendMessages only carries meaning for restricted members
	CanSendMessages bool
}

// ChatInfo represents chat information
type ChatInfo struct {
	ChatID   int64
	Title    string
	ChatType domain.ChatType
}

// PlatformRepo is the messaging-platform interface.
// Responsible for all outbound Telegram Bot API calls.
type PlatformRepo interface {
	// ApproveJoinRequest approves a pending join request
	ApproveJoinRequest(ctx context.Context, chatID, userID int64) error

	// SendText sends a plain text message
	SendText(ctx context.Context, chatID int64, text string) error

	// SendMarkdown sends a Markdown-formatted message
	SendMarkdown(ctx context.Context, chatID int64, text string) error

	// GetChatAdministrators gets the chat administrator list
	GetChatAdministrators(ctx context.Context, chatID int64) ([]ChatAdmin, error)

	// GetChatMember gets one user's membership in a chat
	GetChatMember(ctx context.Context, chatID, userID int64) (*ChatMemberInfo, error)

	// GetChat gets chat information
	GetChat(ctx context.Context, chatID int64) (*ChatInfo, error)

	// BotID returns the bot's own user ID
	BotID() int64
}
