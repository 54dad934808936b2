package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/jobs"
)

const jobSessionRefresh = "session.refresh"

type sessionRefreshStore interface {
	Refresh(ctx context.Context, id string, decide func(repository.RefreshState) (domain.SessionStatus, bool)) (bool, int64, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type refreshRecorder interface {
	RecordRefresh(err error, statusChanged bool, deactivated int64)
}

// LifecycleConfig tunes the refresh workers and the sweep schedule.
type LifecycleConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	Schedule   string
	Location   *time.Location
}

// LifecycleService keeps session status and enrollment activity in line
// with the calendar. Writes schedule a refresh of the touched session on a
// coalescing queue; a cron entry sweeps every session.
type LifecycleService struct {
	store   sessionRefreshStore
	queue   *jobs.Queue
	cron    *cron.Cron
	config  LifecycleConfig
	today   Clock
	metrics refreshRecorder
	stats   statsInvalidator
	logger  *zap.Logger
}

func NewLifecycleService(store sessionRefreshStore, config LifecycleConfig, metrics refreshRecorder, stats statsInvalidator, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Schedule == "" {
		config.Schedule = "@daily"
	}
	if stats == nil {
		stats = noopInvalidator{}
	}
	s := &LifecycleService{
		store:   store,
		config:  config,
		today:   ClockIn(config.Location),
		metrics: metrics,
		stats:   stats,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("lifecycle", s.handle, jobs.QueueConfig{
		Workers:    config.Workers,
		MaxRetries: config.MaxRetries,
		RetryDelay: config.RetryDelay,
		BufferSize: 256,
		Coalesce:   true,
		Logger:     logger,
	})
	return s
}

// Start runs the workers and registers the sweep.
func (s *LifecycleService) Start(ctx context.Context) error {
	s.queue.Start(ctx)

	s.cron = cron.New(
		cron.WithLocation(s.config.Location),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger.Sugar()})),
	)
	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("lifecycle sweep failed", zap.Error(err))
		}
	}); err != nil {
		s.queue.Stop()
		return fmt.Errorf("schedule lifecycle sweep %q: %w", s.config.Schedule, err)
	}
	s.cron.Start()
	s.logger.Info("lifecycle started", zap.String("schedule", s.config.Schedule))
	return nil
}

// Stop waits for a running sweep and drains the workers.
func (s *LifecycleService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.queue.Stop()
}

// ScheduleRefresh queues a refresh of sessionID. Refreshes already waiting
// for the same session are merged.
func (s *LifecycleService) ScheduleRefresh(sessionID string) {
	if sessionID == "" {
		return
	}
	job := jobs.Job{Key: sessionID, ID: uuid.NewString(), Type: jobSessionRefresh, Payload: sessionID}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("session refresh not queued", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Sweep queues a refresh for every session.
func (s *LifecycleService) Sweep(ctx context.Context) error {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.ScheduleRefresh(id)
	}
	s.logger.Info("lifecycle sweep queued", zap.Int("sessions", len(ids)))
	return nil
}

// Refresh recomputes one session now: CLOSED once full or started, and
// every ACTIVE enrollment turned INACTIVE after the end date.
func (s *LifecycleService) Refresh(ctx context.Context, sessionID string) (bool, int64, error) {
	today := s.today()
	changed, deactivated, err := s.store.Refresh(ctx, sessionID, func(state repository.RefreshState) (domain.SessionStatus, bool) {
		status := domain.DeriveSessionStatus(state.StartDate, state.Capacity, state.Enrolled, today)
		return status, domain.SessionEnded(state.EndDate, today)
	})
	if s.metrics != nil {
		s.metrics.RecordRefresh(err, changed, deactivated)
	}
	if err != nil {
		return false, 0, err
	}
	if changed || deactivated > 0 {
		s.logger.Info("session refreshed",
			zap.String("session_id", sessionID), zap.Bool("status_changed", changed), zap.Int64("deactivated", deactivated))
		s.stats.InvalidateStats(ctx)
	}
	return changed, deactivated, nil
}

func (s *LifecycleService) handle(ctx context.Context, job jobs.Job) error {
	sessionID, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("unexpected lifecycle payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	_, _, err := s.Refresh(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("refreshed session no longer exists", zap.String("session_id", sessionID))
		return nil
	}
	return err
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
