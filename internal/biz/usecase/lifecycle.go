package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/repo"
)

// Approvals schedules delayed auto-approvals. Cancel with a stale or
// already-fired handle is a no-op.
type Approvals interface {
	Schedule(userID, chatID int64, delay time.Duration) string
	Cancel(handle string)
}

// LifecycleConfig contains join-workflow configuration
type LifecycleConfig struct {
	ApproveDelay   time.Duration
	NotifyAdmins   bool
	WelcomeMessage string
	NotifyHeader   string
}

// LifecycleUsecase drives the join-request state machine: request -> delayed
// approval -> welcome on confirmed membership, plus departure statistics.
type LifecycleUsecase struct {
	platform  repo.PlatformRepo
	stats     *domain.StatsStore
	pending   *domain.PendingTable
	approved  *domain.ApprovedSet
	approvals Approvals
	config    LifecycleConfig
}

// NewLifecycleUsecase creates a new lifecycle usecase
func NewLifecycleUsecase(
	platform repo.PlatformRepo,
	stats *domain.StatsStore,
	config LifecycleConfig,
) *LifecycleUsecase {
	return &LifecycleUsecase{
		platform: platform,
		stats:    stats,
		pending:  domain.NewPendingTable(),
		approved: domain.NewApprovedSet(),
		config:   config,
	}
}

// SetApprovals sets the approval scheduler
func (uc *LifecycleUsecase) SetApprovals(a Approvals) {
	uc.approvals = a
}

// HandleJoinRequest processes a join-request event: counts it, records the
// pending entry (last request wins), and schedules the delayed approval.
func (uc *LifecycleUsecase) HandleJoinRequest(ctx context.Context, req *domain.JoinRequest) {
	if !req.ChatType.SupportsJoinRequests() {
		fmt.Printf("[Lifecycle] Unsupported chat type %q, dropping request from %d\n", req.ChatType, req.UserID)
		return
	}

	fmt.Printf("[Lifecycle] Join request from %s (%d) in chat %d %q\n",
		req.User.FirstName, req.UserID, req.ChatID, req.ChatTitle)

	uc.stats.RecordRequest(req.ChatID, req.ChatTitle)

	if prior := uc.pending.Put(req); prior != nil && prior.TimerID != "" && uc.approvals != nil {
		// Duplicate request for the same (user, chat): the displaced entry's
		// timer must not approve stale data
		uc.approvals.Cancel(prior.TimerID)
		fmt.Printf("[Lifecycle] Replaced pending request for %d in chat %d\n", req.UserID, req.ChatID)
	}

	if uc.approvals == nil {
		fmt.Println("[Lifecycle] Approval scheduler not configured, request will not auto-approve")
	} else {
		req.TimerID = uc.approvals.Schedule(req.UserID, req.ChatID, uc.config.ApproveDelay)
		fmt.Printf("[Lifecycle] Auto-approval scheduled in %v\n", uc.config.ApproveDelay)
	}

	// Admin notification must never block or fail the request handling
	if uc.config.NotifyAdmins {
		go uc.notifyAdmins(context.Background(), req)
	}
}

// ApproveNow is the approval-timer callback. A request already resolved by
// other means is a benign race, not an error.
func (uc *LifecycleUsecase) ApproveNow(ctx context.Context, userID, chatID int64) {
	if !uc.pending.Contains(userID, chatID) {
		fmt.Printf("[Lifecycle] Request from %d in chat %d already handled\n", userID, chatID)
		return
	}

	if err := uc.platform.ApproveJoinRequest(ctx, chatID, userID); err != nil {
		fmt.Printf("[Lifecycle] Failed to approve %d in chat %d: %v\n", userID, chatID, err)
		// No retry: discard the entry so the request does not linger
		uc.pending.Remove(userID, chatID)
		return
	}

	req := uc.pending.Remove(userID, chatID)
	if req == nil {
		// Resolved concurrently between the approve call and the pop
		return
	}

	uc.approved.Add(userID)
	uc.stats.RecordApproved(chatID)
	fmt.Printf("[Lifecycle] Auto-approved %s (%d) in chat %d\n", req.User.FirstName, userID, chatID)
}

// HandleMemberUpdate processes a membership-status-change event: welcomes
// users the bot approved once they actually join, and counts departures
// regardless of how the user originally got in.
func (uc *LifecycleUsecase) HandleMemberUpdate(ctx context.Context, upd *domain.MemberUpdate) {
	uc.stats.Track(upd.ChatID)

	switch {
	case upd.BecameActive():
		if uc.approved.Take(upd.User.ID) {
			uc.sendWelcome(ctx, upd)
		}
	case upd.Departed():
		uc.stats.RecordLeft(upd.ChatID, upd.ChatTitle)
		fmt.Printf("[Lifecycle] %s (%d) left chat %d\n", upd.User.FirstName, upd.User.ID, upd.ChatID)
	}
}

// PendingCount returns the number of in-flight join requests
func (uc *LifecycleUsecase) PendingCount() int {
	return uc.pending.Len()
}

// sendWelcome sends the personalized welcome message with a plain-text
// fallback when Markdown delivery fails
func (uc *LifecycleUsecase) sendWelcome(ctx context.Context, upd *domain.MemberUpdate) {
	me, err := uc.platform.GetChatMember(ctx, upd.ChatID, uc.platform.BotID())
	if err != nil {
		fmt.Printf("[Lifecycle] Cannot verify bot rights in chat %d: %v\n", upd.ChatID, err)
		return
	}
	if me.Status == domain.StatusRestricted && !me.CanSendMessages {
		fmt.Printf("[Lifecycle] Bot cannot send messages in chat %d\n", upd.ChatID)
		return
	}

	var text string
	if upd.ChatType == domain.ChatTypeChannel {
		// Channels get no user mention
		text = fmt.Sprintf("🎉 Welcome, %s! %s", upd.User.FirstName, uc.config.WelcomeMessage)
	} else {
		text = fmt.Sprintf("%s, %s", upd.User.Mention(), uc.config.WelcomeMessage)
	}

	if err := uc.platform.SendMarkdown(ctx, upd.ChatID, text); err != nil {
		fmt.Printf("[Lifecycle] Welcome message failed for chat %d: %v\n", upd.ChatID, err)
		plain := fmt.Sprintf("Welcome, %s! %s", upd.User.FirstName, uc.config.WelcomeMessage)
		if err := uc.platform.SendText(ctx, upd.ChatID, plain); err != nil {
			fmt.Printf("[Lifecycle] Plain-text welcome also failed for chat %d: %v\n", upd.ChatID, err)
		}
		return
	}
	fmt.Printf("[Lifecycle] Welcomed %s (%d) in chat %d\n", upd.User.FirstName, upd.User.ID, upd.ChatID)
}

// notifyAdmins tells the chat's administrators about a new join request.
// Failures are logged and never propagated.
func (uc *LifecycleUsecase) notifyAdmins(ctx context.Context, req *domain.JoinRequest) {
	username := req.User.Username
	if username == "" {
		username = "not set"
	}
	lastName := ""
	if req.User.LastName != "" {
		lastName = " " + req.User.LastName
	}

	text := fmt.Sprintf(
		"%s\n👤 User: %s%s\n🆔 ID: %d\n👤 Username: %s\n⏰ Auto-approval in %d minutes",
		uc.config.NotifyHeader,
		req.User.FirstName, lastName,
		req.UserID,
		username,
		int(uc.config.ApproveDelay.Minutes()),
	)

	admins, err := uc.platform.GetChatAdministrators(ctx, req.ChatID)
	if err != nil {
		fmt.Printf("[Lifecycle] Failed to fetch admins for chat %d: %v\n", req.ChatID, err)
		return
	}

	for _, admin := range admins {
		if admin.IsBot {
			continue
		}
		if err := uc.platform.SendText(ctx, admin.UserID, text); err != nil {
			fmt.Printf("[Lifecycle] Failed to notify admin %d: %v\n", admin.UserID, err)
		}
	}
}
