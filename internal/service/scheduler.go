package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/joinwarden/joinwarden/internal/biz/usecase"
)

// StatsScheduler runs the periodic statistics jobs: the hourly report, the
// longer period report, and the persistence flush. Report jobs reset their
// rolling window; the persistence job resets nothing.
type StatsScheduler struct {
	cron     *cron.Cron
	reportUC *usecase.ReportUsecase
	statsUC  *usecase.StatsUsecase

	hourlyInterval  time.Duration
	periodInterval  time.Duration
	persistInterval time.Duration
}

// NewStatsScheduler creates a scheduler with the three periodic jobs registered
func NewStatsScheduler(
	reportUC *usecase.ReportUsecase,
	statsUC *usecase.StatsUsecase,
	hourlyInterval, periodInterval, persistInterval time.Duration,
) *StatsScheduler {
	s := &StatsScheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		reportUC:        reportUC,
		statsUC:         statsUC,
		hourlyInterval:  hourlyInterval,
		periodInterval:  periodInterval,
		persistInterval: persistInterval,
	}
	s.registerJobs()
	return s
}

// registerJobs registers all periodic jobs with the cron scheduler
func (s *StatsScheduler) registerJobs() {
	jobs := []struct {
		name     string
		interval time.Duration
		run      func()
	}{
		{"hourly report", s.hourlyInterval, s.runHourlyReport},
		{"period report", s.periodInterval, s.runPeriodReport},
		{"stats persist", s.persistInterval, s.runPersist},
	}

	for _, job := range jobs {
		spec := fmt.Sprintf("@every %s", job.interval)
		if _, err := s.cron.AddFunc(spec, job.run); err != nil {
			fmt.Printf("[Scheduler] Failed to register %s job: %v\n", job.name, err)
		}
	}
}

// Start begins the cron scheduler
func (s *StatsScheduler) Start() {
	s.cron.Start()
	fmt.Printf("[Scheduler] Started (hourly=%v period=%v persist=%v)\n",
		s.hourlyInterval, s.periodInterval, s.persistInterval)
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *StatsScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	fmt.Println("[Scheduler] Stopped")
}

func (s *StatsScheduler) runHourlyReport() {
	s.reportUC.SendHourlyReport(context.Background())
}

func (s *StatsScheduler) runPeriodReport() {
	s.reportUC.SendPeriodReport(context.Background())
}

func (s *StatsScheduler) runPersist() {
	if err := s.statsUC.Persist(context.Background()); err != nil {
		fmt.Printf("[Scheduler] Stats persist failed: %v\n", err)
	}
}
