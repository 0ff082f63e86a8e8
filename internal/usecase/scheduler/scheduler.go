// Package scheduler runs the periodic reconciliation cycle: reminders,
// survey triggers, bot polling, survey reconciliation and feedback nudges.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/cache"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
	"github.com/johnquangdev/coachlink/pkg/jobcontext"
)

// LockKey is the cross-process run lock for one cycle
const LockKey = "coachlink:scheduler:cycle"

// Job types used in job contexts and logs
const (
	JobReminder  = "reminder"
	JobSurvey    = "survey_trigger"
	JobBotPoll   = "bot_poll"
	JobReconcile = "survey_reconcile"
	JobPurge     = "survey_purge"
	JobNudge     = "nudge"
)

// SurveyReconciler pulls completed survey responses into the CRM
type SurveyReconciler interface {
	Reconcile(ctx context.Context) (int, error)
	Purge(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler drives the meeting lifecycle from a ticker
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RunCycle(ctx context.Context, now time.Time) error
}

// Options tunes the loop
type Options struct {
	Interval    time.Duration
	LockTTL     time.Duration
	ItemTimeout time.Duration
	Now         func() time.Time
}

type scheduler struct {
	lifecycle meeting.Lifecycle
	surveys   SurveyReconciler
	locker    cache.Locker
	opts      Options
	logger    *zap.Logger

	group   singleflight.Group
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. surveys and locker may be nil.
func NewScheduler(lifecycle meeting.Lifecycle, surveys SurveyReconciler, locker cache.Locker, opts Options, logger *zap.Logger) Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = opts.Interval
	}
	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = jobcontext.DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &scheduler{
		lifecycle: lifecycle,
		surveys:   surveys,
		locker:    locker,
		opts:      opts,
		logger:    logger,
	}
}

// Start launches the ticker loop
func (s *scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.logger != nil {
		s.logger.Info("🚀 Starting scheduler", zap.Duration("interval", s.opts.Interval))
	}

	s.wg.Add(1)
	go s.loop(loopCtx)
	return nil
}

// Stop ends the loop and waits for the running cycle
func (s *scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler not running")
	}
	close(s.stopCh)
	s.cancel()
	s.wg.Wait()
	s.running = false

	if s.logger != nil {
		s.logger.Info("✅ Scheduler stopped")
	}
	return nil
}

func (s *scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunCycle(ctx, s.opts.Now()); err != nil && s.logger != nil {
				s.logger.Error("❌ Scheduler cycle failed", zap.Error(err))
			}
		}
	}
}

// RunCycle executes one pass. Concurrent callers in this process share the
// in-flight cycle; a cycle held by another process is skipped.
func (s *scheduler) RunCycle(ctx context.Context, now time.Time) error {
	_, err, _ := s.group.Do("cycle", func() (interface{}, error) {
		return nil, s.runLocked(ctx, now)
	})
	return err
}

func (s *scheduler) runLocked(ctx context.Context, now time.Time) error {
	if s.locker != nil {
		release, err := s.locker.TryLock(ctx, LockKey, s.opts.LockTTL)
		if err != nil {
			if errors.Is(err, cache.ErrLockHeld) {
				if s.logger != nil {
					s.logger.Debug("scheduler cycle held elsewhere, skipping")
				}
				return nil
			}
			return fmt.Errorf("failed to acquire scheduler lock: %w", err)
		}
		defer release()
	}

	now = now.UTC()
	start := time.Now()

	reminders := s.remind(ctx, now)
	surveys := s.triggerSurveys(ctx, now)
	polled := s.pollBots(ctx, now)
	if now.Minute()%10 == 0 {
		s.reconcile(ctx, now)
	}
	nudged := s.nudge(ctx, now)

	if s.logger != nil {
		s.logger.Debug("scheduler cycle done",
			zap.Int("reminders", reminders),
			zap.Int("surveys", surveys),
			zap.Int("polled", polled),
			zap.Int("nudges", nudged),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}

func (s *scheduler) remind(ctx context.Context, now time.Time) int {
	due, err := s.lifecycle.DueReminders(ctx)
	if err != nil {
		s.listFailed(JobReminder, err)
		return 0
	}
	return s.each(ctx, now, JobReminder, due, func(ctx context.Context, m *entities.Meeting) error {
		return s.lifecycle.SendReminder(ctx, m, now)
	})
}

func (s *scheduler) triggerSurveys(ctx context.Context, now time.Time) int {
	due, err := s.lifecycle.DueSurveys(ctx, now)
	if err != nil {
		s.listFailed(JobSurvey, err)
		return 0
	}
	return s.each(ctx, now, JobSurvey, due, s.lifecycle.TriggerSurvey)
}

func (s *scheduler) pollBots(ctx context.Context, now time.Time) int {
	pending, err := s.lifecycle.AwaitingTranscript(ctx)
	if err != nil {
		s.listFailed(JobBotPoll, err)
		return 0
	}
	return s.each(ctx, now, JobBotPoll, pending, func(ctx context.Context, m *entities.Meeting) error {
		return s.lifecycle.PollBot(ctx, m, now)
	})
}

func (s *scheduler) nudge(ctx context.Context, now time.Time) int {
	waiting, err := s.lifecycle.AwaitingFeedback(ctx, now)
	if err != nil {
		s.listFailed(JobNudge, err)
		return 0
	}
	return s.each(ctx, now, JobNudge, waiting, s.lifecycle.Nudge)
}

func (s *scheduler) reconcile(ctx context.Context, now time.Time) {
	if s.surveys == nil {
		return
	}
	s.run(ctx, now, JobReconcile, 0, func(ctx context.Context) error {
		n, err := s.surveys.Reconcile(ctx)
		if err == nil && n > 0 && s.logger != nil {
			s.logger.Info("📊 Survey responses synced", zap.Int("count", n))
		}
		return err
	})
	if now.Hour() != 0 {
		return
	}
	s.run(ctx, now, JobPurge, 0, func(ctx context.Context) error {
		n, err := s.surveys.Purge(ctx, now)
		if err == nil && n > 0 && s.logger != nil {
			s.logger.Info("🧹 Survey ledger purged", zap.Int64("rows", n))
		}
		return err
	})
}

// each runs fn for every meeting in order and returns how many succeeded
func (s *scheduler) each(ctx context.Context, now time.Time, job string, meetings []entities.Meeting, fn func(context.Context, *entities.Meeting) error) int {
	ok := 0
	for i := range meetings {
		if ctx.Err() != nil {
			break
		}
		m := &meetings[i]
		if s.run(ctx, now, job, m.ID, func(ctx context.Context) error { return fn(ctx, m) }) {
			ok++
		}
	}
	return ok
}

func (s *scheduler) run(ctx context.Context, now time.Time, job string, meetingID int64, fn func(context.Context) error) bool {
	itemCtx, cancel := jobcontext.Begin(ctx, job, meetingID, now, s.opts.ItemTimeout)
	defer cancel()

	if err := jobcontext.Run(itemCtx, fn); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Scheduler item failed", append(jobcontext.Fields(itemCtx), zap.Error(err))...)
		}
		return false
	}
	return true
}

func (s *scheduler) listFailed(job string, err error) {
	if s.logger != nil {
		s.logger.Error("❌ Scheduler query failed", zap.String("job", job), zap.Error(err))
	}
}
