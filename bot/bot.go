package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/joinwarden/joinwarden/internal/biz"
	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/usecase"
	"github.com/joinwarden/joinwarden/internal/conf"
	"github.com/joinwarden/joinwarden/internal/data"
	"github.com/joinwarden/joinwarden/internal/server"
	"github.com/joinwarden/joinwarden/internal/service"
	"github.com/joinwarden/joinwarden/telegram"
)

// Bot wires the Telegram client, repositories, usecases, and schedulers into
// a runnable join-request workflow
type Bot struct {
	config    *conf.Config
	client    *telegram.Client
	repos     *data.Repositories
	usecases  *biz.Usecases
	approvals *service.ApprovalScheduler
	scheduler *service.StatsScheduler
	server    *server.TelegramServer

	stopOnce sync.Once
}

// New builds the bot from configuration
func New(config *conf.Config) (*Bot, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := telegram.NewClient(config.Telegram.Token, config.Debug)
	if err != nil {
		return nil, err
	}

	repos, err := data.NewRepositories(client, config.Stats.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init repositories: %w", err)
	}

	store := domain.NewStatsStore()
	statsUC := usecase.NewStatsUsecase(store, repos.Stats)
	lifecycleUC := usecase.NewLifecycleUsecase(repos.Platform, store, config.ToLifecycleConfig())
	reportUC := usecase.NewReportUsecase(repos.Platform, store, config.ToReportConfig())

	approvals := service.NewApprovalScheduler(lifecycleUC.ApproveNow)
	lifecycleUC.SetApprovals(approvals)

	scheduler := service.NewStatsScheduler(reportUC, statsUC,
		config.Stats.HourlyInterval, config.Stats.PeriodInterval, config.Stats.PersistInterval)

	return &Bot{
		config: config,
		client: client,
		repos:  repos,
		usecases: &biz.Usecases{
			Lifecycle: lifecycleUC,
			Report:    reportUC,
			Stats:     statsUC,
		},
		approvals: approvals,
		scheduler: scheduler,
		server:    server.NewTelegramServer(client, repos.Platform, lifecycleUC, reportUC),
	}, nil
}

// Start restores persisted stats, starts the schedulers, and blocks polling
// for updates until Stop is called
func (b *Bot) Start() error {
	b.usecases.Stats.Load(context.Background())
	b.scheduler.Start()
	return b.server.Start()
}

// Stop shuts down polling and schedulers and flushes stats to durable
// storage. Safe to call on every exit path; runs at most once.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		b.server.Stop()
		b.scheduler.Stop()
		b.approvals.Stop()

		if err := b.usecases.Stats.Persist(context.Background()); err != nil {
			fmt.Printf("[Bot] Final stats flush failed: %v\n", err)
		} else {
			fmt.Println("[Bot] Stats flushed to disk")
		}
		if err := b.repos.Stats.Close(); err != nil {
			fmt.Printf("[Bot] Failed to close stats database: %v\n", err)
		}
	})
}
