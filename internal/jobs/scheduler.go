package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
)

const jobTimeout = 5 * time.Minute

// AppointmentJobs is the part of the appointment service the scheduler drives.
type AppointmentJobs interface {
	SendReminders(ctx context.Context) (int, error)
	CompleteFinished(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic appointment maintenance on cron specs
// evaluated in the business timezone.
type Scheduler struct {
	cron     *cron.Cron
	jobs     AppointmentJobs
	activity *activity.Log
	logger   *zap.Logger
}

func NewScheduler(jobs AppointmentJobs, activityLog *activity.Log, logger *zap.Logger, loc *time.Location) *Scheduler {
	cronLogger := zapCronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobs:     jobs,
		activity: activityLog,
		logger:   logger,
	}
}

// Register schedules the reminder and completion jobs. An empty spec disables that job.
func (s *Scheduler) Register(reminderSpec, completionSpec string) error {
	if reminderSpec != "" {
		if _, err := s.cron.AddFunc(reminderSpec, func() { s.RunReminders(context.Background()) }); err != nil {
			return fmt.Errorf("schedule reminders %q: %w", reminderSpec, err)
		}
	}
	if completionSpec != "" {
		if _, err := s.cron.AddFunc(completionSpec, func() { s.RunCompletion(context.Background()) }); err != nil {
			return fmt.Errorf("schedule completion sweep %q: %w", completionSpec, err)
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunReminders emails next-day reminders once.
func (s *Scheduler) RunReminders(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	sent, err := s.jobs.SendReminders(ctx)
	if err != nil {
		s.logger.Error("reminder job failed", zap.Int("sent", sent), zap.Error(err))
		s.activity.Record(activity.KindJobRun, "Reminder job failed", map[string]string{"job": "reminders"})
		return
	}
	s.logger.Info("reminder job finished", zap.Int("sent", sent))
	s.activity.Record(activity.KindJobRun, "Sent "+strconv.Itoa(sent)+" appointment reminders", map[string]string{"job": "reminders"})
}

// RunCompletion marks finished confirmed appointments as completed once.
func (s *Scheduler) RunCompletion(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	n, err := s.jobs.CompleteFinished(ctx)
	if err != nil {
		s.logger.Error("completion job failed", zap.Error(err))
		s.activity.Record(activity.KindJobRun, "Completion sweep failed", map[string]string{"job": "completion"})
		return
	}
	if n == 0 {
		return
	}
	s.logger.Info("completion job finished", zap.Int64("completed", n))
	s.activity.Record(activity.KindJobRun, "Marked "+strconv.FormatInt(n, 10)+" appointments completed", map[string]string{"job": "completion"})
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	s *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
