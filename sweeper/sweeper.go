package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/libreshelf/lending-engine/features/command/runoverduesweep"
	"github.com/libreshelf/lending-engine/shell"
)

const (
	logMsgSweepTick   = "overdue sweep triggered by schedule"
	logMsgSweepFailed = "overdue sweep run failed"

	logAttrSchedule = "schedule"
)

// Sweeper runs the overdue sweep on a cron schedule.
type Sweeper struct {
	handler  runoverduesweep.CommandHandler
	schedule string
	logger   shell.Logger
	cron     *cron.Cron
	entryID  cron.EntryID
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger for schedule reporting.
func WithLogger(logger shell.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// New creates a Sweeper that runs the given handler on the cron schedule,
// in the standard five-field format ("0 0 * * *" is daily at midnight).
func New(handler runoverduesweep.CommandHandler, schedule string, opts ...Option) *Sweeper {
	sweeper := &Sweeper{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	return sweeper
}

// Start registers the schedule and starts the cron loop. The returned error
// is only ever a malformed schedule expression.
func (s *Sweeper) Start() error {
	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.logInfo(logMsgSweepTick, logAttrSchedule, s.schedule)

		if _, runErr := s.RunOnce(context.Background(), time.Now()); runErr != nil {
			s.logError(logMsgSweepFailed, runErr)
		}
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// RunOnce executes a single sweep outside the schedule, for manual triggers.
func (s *Sweeper) RunOnce(ctx context.Context, asOf time.Time) (runoverduesweep.Result, error) {
	return s.handler.Handle(ctx, runoverduesweep.BuildCommand(asOf))
}

func (s *Sweeper) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Sweeper) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, shell.LogAttrError, err.Error())
	}
}
