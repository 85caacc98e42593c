package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/repo"
)

// ReportConfig contains report formatting configuration
type ReportConfig struct {
	HourlyHeader string // %s is the report time
	PeriodHeader string // %s is the report time
}

// ReportUsecase builds statistics reports and fans them out to the
// administrators of every tracked chat.
type ReportUsecase struct {
	platform repo.PlatformRepo
	stats    *domain.StatsStore
	config   ReportConfig
}

// NewReportUsecase creates a new report usecase
func NewReportUsecase(platform repo.PlatformRepo, stats *domain.StatsStore, config ReportConfig) *ReportUsecase {
	return &ReportUsecase{
		platform: platform,
		stats:    stats,
		config:   config,
	}
}

// SendHourlyReport snapshots and resets the hourly window and distributes the
// report. An empty window sends nothing.
func (uc *ReportUsecase) SendHourlyReport(ctx context.Context) {
	snap := uc.stats.SnapshotAndResetRolling(domain.WindowHourly)
	if snap.Empty() {
		fmt.Println("[Report] No hourly activity, report suppressed")
		return
	}
	uc.Distribute(ctx, uc.FormatWindowReport(snap))
}

// SendPeriodReport snapshots and resets the period window and distributes the
// report. An empty window sends nothing.
func (uc *ReportUsecase) SendPeriodReport(ctx context.Context) {
	snap := uc.stats.SnapshotAndResetRolling(domain.WindowPeriod)
	if snap.Empty() {
		fmt.Println("[Report] No period activity, report suppressed")
		return
	}
	uc.Distribute(ctx, uc.FormatWindowReport(snap))
}

// FormatWindowReport formats a rolling-window snapshot as a report message
func (uc *ReportUsecase) FormatWindowReport(snap *domain.WindowSnapshot) string {
	var sb strings.Builder

	if snap.Window == domain.WindowHourly {
		sb.WriteString(fmt.Sprintf(uc.config.HourlyHeader, snap.TakenAt.Format("15:04")))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("📈 New requests: %d\n", snap.Requests))
		sb.WriteString(fmt.Sprintf("📉 Left: %d\n", snap.Left))
		writeChatLines(&sb, snap.Chats)
		sb.WriteString("➖➖➖➖➖➖➖➖➖➖\n")
		sb.WriteString(fmt.Sprintf("🔄 Net change: %d", snap.Requests-snap.Left))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf(uc.config.PeriodHeader, snap.TakenAt.Format("02.01.2006 15:04")))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("📝 New requests: %d\n", snap.Requests))
	sb.WriteString(fmt.Sprintf("✅ Approved (all time): %d\n", snap.Lifetime.Approved))
	sb.WriteString(fmt.Sprintf("👋 Left: %d\n", snap.Left))
	sb.WriteString(fmt.Sprintf("🔄 Net change: %d\n", snap.Requests-snap.Left))
	writeChatLines(&sb, snap.Chats)
	sb.WriteString("\n📊 All-time totals:\n")
	sb.WriteString(fmt.Sprintf("📋 Requests: %d\n", snap.Lifetime.Requests))
	sb.WriteString(fmt.Sprintf("✅ Approved: %d\n", snap.Lifetime.Approved))
	sb.WriteString(fmt.Sprintf("👋 Left: %d", snap.Lifetime.Left))
	return sb.String()
}

func writeChatLines(sb *strings.Builder, chats []domain.ChatWindowStats) {
	for _, cs := range chats {
		title := cs.Title
		if title == "" {
			title = fmt.Sprintf("chat %d", cs.ChatID)
		}
		sb.WriteString(fmt.Sprintf("• %s: +%d / -%d\n", title, cs.Requests, cs.Left))
	}
}

// Distribute sends the report to every administrator of every tracked chat.
// Each admin receives it once even when they administer several tracked
// chats; inaccessible chats are dropped from the tracked set.
func (uc *ReportUsecase) Distribute(ctx context.Context, text string) {
	tracked := uc.stats.TrackedChats()
	if len(tracked) == 0 {
		fmt.Println("[Report] No tracked chats, nothing to distribute")
		return
	}

	sent := make(map[int64]struct{})
	for _, chatID := range tracked {
		chat, err := uc.platform.GetChat(ctx, chatID)
		if err != nil {
			if repo.IsInaccessible(err) {
				fmt.Printf("[Report] Chat %d no longer accessible, untracking: %v\n", chatID, err)
				uc.stats.Untrack(chatID)
			} else {
				fmt.Printf("[Report] Failed to fetch chat %d: %v\n", chatID, err)
			}
			continue
		}

		// Channels only deliver admin lists to administrators
		if chat.ChatType == domain.ChatTypeChannel {
			me, err := uc.platform.GetChatMember(ctx, chatID, uc.platform.BotID())
			if err != nil || !me.Status.IsAdmin() {
				continue
			}
		}

		admins, err := uc.platform.GetChatAdministrators(ctx, chatID)
		if err != nil {
			fmt.Printf("[Report] Failed to fetch admins for chat %d: %v\n", chatID, err)
			continue
		}

		for _, admin := range admins {
			if admin.IsBot {
				continue
			}
			if _, dup := sent[admin.UserID]; dup {
				continue
			}
			if err := uc.platform.SendText(ctx, admin.UserID, text); err != nil {
				fmt.Printf("[Report] Failed to deliver report to admin %d: %v\n", admin.UserID, err)
				continue
			}
			sent[admin.UserID] = struct{}{}
		}
	}

	fmt.Printf("[Report] Report delivered to %d admins\n", len(sent))
}

// QueryStats returns the full current report for an administrator of at
// least one tracked chat, or repo.ErrDenied otherwise
func (uc *ReportUsecase) QueryStats(ctx context.Context, userID int64, isAdminOf func(chatID int64) bool) (string, error) {
	authorized := false
	for _, chatID := range uc.stats.TrackedChats() {
		if isAdminOf(chatID) {
			authorized = true
			break
		}
	}
	if !authorized {
		return "", fmt.Errorf("stats query by %d: %w", userID, repo.ErrDenied)
	}
	return uc.FormatFullReport(uc.stats.Snapshot()), nil
}

// FormatFullReport formats the complete current counters without resetting anything
func (uc *ReportUsecase) FormatFullReport(snap *domain.StoreSnapshot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Current statistics (%s):\n\n", time.Now().Format("02.01.2006 15:04")))

	for _, chatID := range snap.Tracked {
		cs, ok := snap.Chats[chatID]
		if !ok {
			continue
		}
		title := cs.Title
		if title == "" {
			title = fmt.Sprintf("chat %d", chatID)
		}
		sb.WriteString(fmt.Sprintf("• %s — requests: %d, approved: %d, left: %d\n",
			title, cs.Lifetime.Requests, cs.Lifetime.Approved, cs.Lifetime.Left))
	}

	sb.WriteString("\n🌐 Overall:\n")
	sb.WriteString(fmt.Sprintf("📋 Requests: %d\n", snap.Global.Lifetime.Requests))
	sb.WriteString(fmt.Sprintf("✅ Approved: %d\n", snap.Global.Lifetime.Approved))
	sb.WriteString(fmt.Sprintf("👋 Left: %d\n", snap.Global.Lifetime.Left))
	sb.WriteString(fmt.Sprintf("👥 Tracked chats: %d", len(snap.Tracked)))
	return sb.String()
}
