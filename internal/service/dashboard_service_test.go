package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Invalidate(ctx context.Context, prefix string) error {
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

type mockDashboardRepo struct {
	calls int
}

func (m *mockDashboardRepo) Counts(ctx context.Context) (*repository.DashboardCounts, error) {
	m.calls++
	return &repository.DashboardCounts{Courses: 4, OpenSessions: 2, PrivateLessons: 7, Students: 30, ActiveStudents: 21}, nil
}

func (m *mockDashboardRepo) Levels(ctx context.Context) ([]models.LevelCount, error) {
	return []models.LevelCount{{Level: "A1", Count: 10}}, nil
}

func (m *mockDashboardRepo) OpenSessionSeats(ctx context.Context) ([]models.OpenSessionSeats, error) {
	return nil, nil
}

type fixedUnpaid int

func (f fixedUnpaid) CountUnpaid(ctx context.Context) (int, error) { return int(f), nil }

type mockBirthdays struct {
	months []int
}

func (m *mockBirthdays) Birthdays(ctx context.Context, month int) ([]models.BirthdayEntry, error) {
	m.months = append(m.months, month)
	return nil, nil
}

func TestDashboardServiceStatsCached(t *testing.T) {
	repo := &mockDashboardRepo{}
	birthdays := &mockBirthdays{}
	cache := NewCacheService(&memoryCache{entries: map[string][]byte{}}, nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, fixedUnpaid(5), birthdays, cache, fixedClock("2025-03-15"), nil)
	ctx := context.Background()

	stats, hit, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 5, stats.UnpaidInvoices)
	assert.Equal(t, 21, stats.ActiveStudents)
	assert.Equal(t, []int{3}, birthdays.months)

	stats, hit, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 30, stats.Students)
	assert.Equal(t, 1, repo.calls)

	svc.InvalidateStats(ctx)
	_, hit, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardServiceStatsWithoutCache(t *testing.T) {
	repo := &mockDashboardRepo{}
	svc := NewDashboardService(repo, fixedUnpaid(0), &mockBirthdays{}, nil, fixedClock("2025-03-15"), nil)

	_, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	_, hit, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)

	var nilService *DashboardService
	assert.NotPanics(t, func() { nilService.InvalidateStats(context.Background()) })
}
