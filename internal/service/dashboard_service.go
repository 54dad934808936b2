package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

const dashboardCachePrefix = "dashboard:"

type dashboardRepository interface {
	Counts(ctx context.Context) (*repository.DashboardCounts, error)
	Levels(ctx context.Context) ([]models.LevelCount, error)
	OpenSessionSeats(ctx context.Context) ([]models.OpenSessionSeats, error)
}

type unpaidCounter interface {
	CountUnpaid(ctx context.Context) (int, error)
}

type birthdayLister interface {
	Birthdays(ctx context.Context, month int) ([]models.BirthdayEntry, error)
}

// DashboardService aggregates the front-desk overview and caches it.
type DashboardService struct {
	repo      dashboardRepository
	invoices  unpaidCounter
	birthdays birthdayLister
	cache     *CacheService
	today     Clock
	logger    *zap.Logger
}

func NewDashboardService(repo dashboardRepository, invoices unpaidCounter, birthdays birthdayLister, cache *CacheService, today Clock, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, invoices: invoices, birthdays: birthdays, cache: cache, today: defaultClock(today), logger: logger}
}

// Stats returns the dashboard figures and whether they came from cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	today := s.today()
	key := fmt.Sprintf("%sstats:%s", dashboardCachePrefix, today)

	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard counts")
	}
	unpaid, err := s.invoices.CountUnpaid(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unpaid invoices")
	}
	levels, err := s.repo.Levels(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level distribution")
	}
	seats, err := s.repo.OpenSessionSeats(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load open sessions")
	}
	birthdays, err := s.birthdays.Birthdays(ctx, int(today.Month()))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load birthdays")
	}

	stats := &models.DashboardStats{
		UnpaidInvoices:    unpaid,
		Courses:           counts.Courses,
		OpenSessions:      counts.OpenSessions,
		PrivateLessons:    counts.PrivateLessons,
		Students:          counts.Students,
		ActiveStudents:    counts.ActiveStudents,
		Levels:            levels,
		SessionsWithSeats: seats,
		Birthdays:         birthdays,
	}
	if err := s.cache.Set(ctx, key, stats, 0); err != nil {
		s.logger.Debug("dashboard cache not stored", zap.Error(err))
	}
	return stats, false, nil
}

// InvalidateStats drops the cached figures.
func (s *DashboardService) InvalidateStats(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePrefix); err != nil {
		s.logger.Warn("dashboard cache not invalidated", zap.Error(err))
	}
}
