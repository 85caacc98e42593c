package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/repo"
	"github.com/joinwarden/joinwarden/internal/biz/usecase"
	"github.com/joinwarden/joinwarden/telegram"
)

// TelegramServer routes platform updates into the usecases and answers the
// /stats admin command
type TelegramServer struct {
	client      *telegram.Client
	platform    repo.PlatformRepo
	lifecycleUC *usecase.LifecycleUsecase
	reportUC    *usecase.ReportUsecase
}

// NewTelegramServer creates a new Telegram server
func NewTelegramServer(
	client *telegram.Client,
	platform repo.PlatformRepo,
	lifecycleUC *usecase.LifecycleUsecase,
	reportUC *usecase.ReportUsecase,
) *TelegramServer {
	return &TelegramServer{
		client:      client,
		platform:    platform,
		lifecycleUC: lifecycleUC,
		reportUC:    reportUC,
	}
}

// Start registers the update handlers and blocks polling for updates
func (s *TelegramServer) Start() error {
	s.client.OnJoinRequest(s.handleJoinRequest)
	s.client.OnChatMember(s.handleChatMember)
	s.client.OnCommand(s.handleCommand)
	return s.client.Start()
}

// Stop stops the polling loop
func (s *TelegramServer) Stop() {
	s.client.Stop()
}

func (s *TelegramServer) handleJoinRequest(req *tgbotapi.ChatJoinRequest) {
	s.lifecycleUC.HandleJoinRequest(context.Background(), &domain.JoinRequest{
		UserID:      req.From.ID,
		ChatID:      req.Chat.ID,
		ChatTitle:   req.Chat.Title,
		ChatType:    domain.ChatType(req.Chat.Type),
		RequestedAt: time.Unix(int64(req.Date), 0),
		User:        profileFromUser(&req.From),
	})
}

func (s *TelegramServer) handleChatMember(upd *tgbotapi.ChatMemberUpdated) {
	user := upd.NewChatMember.User
	if user == nil {
		return
	}
	s.lifecycleUC.HandleMemberUpdate(context.Background(), &domain.MemberUpdate{
		ChatID:    upd.Chat.ID,
		ChatTitle: upd.Chat.Title,
		ChatType:  domain.ChatType(upd.Chat.Type),
		User:      profileFromUser(user),
		OldStatus: domain.MemberStatus(upd.OldChatMember.Status),
		NewStatus: domain.MemberStatus(upd.NewChatMember.Status),
	})
}

func (s *TelegramServer) handleCommand(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	switch msg.Command() {
	case "stats":
		s.handleStatsCommand(msg)
	}
}

// handleStatsCommand answers /stats for administrators of tracked chats.
// Authorization checks the live admin lists, not a cached role.
func (s *TelegramServer) handleStatsCommand(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := msg.From.ID

	isAdminOf := func(chatID int64) bool {
		admins, err := s.platform.GetChatAdministrators(ctx, chatID)
		if err != nil {
			return false
		}
		for _, admin := range admins {
			if admin.UserID == userID {
				return true
			}
		}
		return false
	}

	report, err := s.reportUC.QueryStats(ctx, userID, isAdminOf)
	if err != nil {
		reply := "⚠️ Could not build the statistics report, try again later."
		if errors.Is(err, repo.ErrDenied) {
			reply = "⛔ This command is available to administrators of tracked chats only."
		}
		fmt.Printf("[Server] /stats from %d rejected: %v\n", userID, err)
		if err := s.platform.SendText(ctx, msg.Chat.ID, reply); err != nil {
			fmt.Printf("[Server] Failed to answer /stats: %v\n", err)
		}
		return
	}

	if err := s.platform.SendText(ctx, msg.Chat.ID, report); err != nil {
		fmt.Printf("[Server] Failed to deliver /stats report to %d: %v\n", userID, err)
	}
}

func profileFromUser(u *tgbotapi.User) domain.UserProfile {
	return domain.UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
		IsBot:     u.IsBot,
	}
}
