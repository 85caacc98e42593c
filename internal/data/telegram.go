package data

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/repo"
	"github.com/joinwarden/joinwarden/telegram"
)

// telegramRepo implements the platform repository over the Telegram client
type telegramRepo struct {
	client *telegram.Client
}

// NewTelegramRepo creates a new Telegram platform repository
func NewTelegramRepo(client *telegram.Client) repo.PlatformRepo {
	return &telegramRepo{client: client}
}

// classify maps Bot API errors onto the repo error taxonomy. 403 means the
// bot lacks rights, 400 covers gone chats and expired requests; everything
// else (including transport failures) stays transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 403:
			return fmt.Errorf("%w: %s", repo.ErrPermissionDenied, apiErr.Message)
		case 400:
			return fmt.Errorf("%w: %s", repo.ErrNotFound, apiErr.Message)
		}
	}
	return err
}

// ApproveJoinRequest approves a pending join request
func (r *telegramRepo) ApproveJoinRequest(ctx context.Context, chatID, userID int64) error {
	return classify(r.client.ApproveJoinRequest(chatID, userID))
}

// SendText sends a plain text message
func (r *telegramRepo) SendText(ctx context.Context, chatID int64, text string) error {
	return classify(r.client.SendText(chatID, text))
}

// SendMarkdown sends a Markdown-formatted message
func (r *telegramRepo) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	return classify(r.client.SendMarkdown(chatID, text))
}

// GetChatAdministrators gets the chat administrator list
func (r *telegramRepo) GetChatAdministrators(ctx context.Context, chatID int64) ([]repo.ChatAdmin, error) {
	members, err := r.client.GetChatAdministrators(chatID)
	if err != nil {
		return nil, classify(err)
	}

	admins := make([]repo.ChatAdmin, 0, len(members))
	for _, m := range members {
		if m.User == nil {
			continue
		}
		admins = append(admins, repo.ChatAdmin{
			UserID: m.User.ID,
			Name:   m.User.FirstName,
			IsBot:  m.User.IsBot,
		})
	}
	return admins, nil
}

// GetChatMember gets one user's membership in a chat
func (r *telegramRepo) GetChatMember(ctx context.Context, chatID, userID int64) (*repo.ChatMemberInfo, error) {
	member, err := r.client.GetChatMember(chatID, userID)
	if err != nil {
		return nil, classify(err)
	}
	return &repo.ChatMemberInfo{
		Status:          domain.MemberStatus(member.Status),
		CanSendMessages: member.CanSendMessages,
	}, nil
}

// GetChat gets chat information
func (r *telegramRepo) GetChat(ctx context.Context, chatID int64) (*repo.ChatInfo, error) {
	chat, err := r.client.GetChat(chatID)
	if err != nil {
		return nil, classify(err)
	}
	return &repo.ChatInfo{
		ChatID:   chat.ID,
		Title:    chat.Title,
		ChatType: domain.ChatType(chat.Type),
	}, nil
}

// BotID returns the bot's own user ID
func (r *telegramRepo) BotID() int64 {
	return r.client.Self().ID
}
