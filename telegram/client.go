package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Telegram Bot API for the update kinds this bot consumes:
// join requests, chat member changes, and commands.
type Client struct {
	api *tgbotapi.BotAPI

	onJoinRequest func(*tgbotapi.ChatJoinRequest)
	onChatMember  func(*tgbotapi.ChatMemberUpdated)
	onCommand     func(*tgbotapi.Message)
}

// NewClient creates a client and verifies the token against getMe
func NewClient(token string, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	api.Debug = debug
	return &Client{api: api}, nil
}

// Self returns the bot's own user info
func (c *Client) Self() tgbotapi.User {
	return c.api.Self
}

// OnJoinRequest sets the join request handler
func (c *Client) OnJoinRequest(handler func(*tgbotapi.ChatJoinRequest)) {
	c.onJoinRequest = handler
}

// OnChatMember sets the membership change handler
func (c *Client) OnChatMember(handler func(*tgbotapi.ChatMemberUpdated)) {
	c.onChatMember = handler
}

// OnCommand sets the bot command handler
func (c *Client) OnCommand(handler func(*tgbotapi.Message)) {
	c.onCommand = handler
}

// Start begins long polling and blocks until Stop is called.
// Only the update kinds the bot handles are requested; chat_member updates
// in particular are not delivered unless asked for explicitly.
func (c *Client) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "chat_join_request", "chat_member"}

	fmt.Printf("[Telegram] Connected as @%s, polling for updates...\n", c.api.Self.UserName)

	for update := range c.api.GetUpdatesChan(u) {
		c.dispatch(update)
	}
	return nil
}

// Stop ends the polling loop, letting Start return
func (c *Client) Stop() {
	c.api.StopReceivingUpdates()
}

func (c *Client) dispatch(update tgbotapi.Update) {
	switch {
	case update.ChatJoinRequest != nil:
		if c.onJoinRequest != nil {
			c.onJoinRequest(update.ChatJoinRequest)
		}
	case update.ChatMember != nil:
		if c.onChatMember != nil {
			c.onChatMember(update.ChatMember)
		}
	case update.Message != nil && update.Message.IsCommand():
		if c.onCommand != nil {
			c.onCommand(update.Message)
		}
	}
}

// ApproveJoinRequest approves a pending chat join request
func (c *Client) ApproveJoinRequest(chatID, userID int64) error {
	_, err := c.api.Request(tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
		UserID:     userID,
	})
	return err
}

// SendText sends a plain text message
func (c *Client) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := c.api.Send(msg)
	return err
}

// SendMarkdown sends a Markdown-formatted message
func (c *Client) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.api.Send(msg)
	return err
}

// GetChatAdministrators gets the administrator list of a chat
func (c *Client) GetChatAdministrators(chatID int64) ([]tgbotapi.ChatMember, error) {
	return c.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
}

// GetChatMember gets one user's membership in a chat
func (c *Client) GetChatMember(chatID, userID int64) (tgbotapi.ChatMember, error) {
	return c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
}

// GetChat gets chat information
func (c *Client) GetChat(chatID int64) (tgbotapi.Chat, error) {
	return c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
}
