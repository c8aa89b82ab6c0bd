package watch

import (
	"log/slog"
	"strings"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler running one cron job.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewScheduler schedules task on the cron expression spec. Six-field
// expressions carry a leading seconds field.
func NewScheduler(spec string, task func(), logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create scheduler").Build()
	}
	withSeconds := len(strings.Fields(spec)) == 6
	_, err = s.NewJob(
		gocron.CronJob(spec, withSeconds),
		gocron.NewTask(func() {
			logger.Info("Scheduled full build triggered", slog.String("schedule", spec))
			task()
		}),
		gocron.WithName("scheduled-full-build"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid watch schedule").
			WithContext("schedule", spec).Build()
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
