package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
)

type mockRefreshStore struct {
	mu        sync.Mutex
	states    map[string]repository.RefreshState
	refreshed []string
	ids       []string
}

func (m *mockRefreshStore) Refresh(ctx context.Context, id string, decide func(repository.RefreshState) (domain.SessionStatus, bool)) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[id]
	if !ok {
		return false, 0, sql.ErrNoRows
	}
	m.refreshed = append(m.refreshed, id)
	next, ended := decide(state)
	changed := next != state.Status
	state.Status = next
	m.states[id] = state
	var deactivated int64
	if ended {
		deactivated = int64(state.Enrolled)
	}
	return changed, deactivated, nil
}

func (m *mockRefreshStore) ListIDs(ctx context.Context) ([]string, error) {
	return m.ids, nil
}

func (m *mockRefreshStore) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.refreshed...)
}

type recordingRefreshes struct {
	mu    sync.Mutex
	calls int
	errs  int
}

func (r *recordingRefreshes) RecordRefresh(err error, changed bool, deactivated int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if err != nil {
		r.errs++
	}
}

func refreshState(status domain.SessionStatus, start, end string, capacity, enrolled int) repository.RefreshState {
	return repository.RefreshState{
		Status:    status,
		StartDate: domain.MustParseDate(start),
		EndDate:   domain.MustParseDate(end),
		Capacity:  capacity,
		Enrolled:  enrolled,
	}
}

func TestLifecycleServiceRefreshDecisions(t *testing.T) {
	store := &mockRefreshStore{states: map[string]repository.RefreshState{
		"upcoming": refreshState(domain.SessionOpen, "2025-04-01", "2025-06-30", 10, 3),
		"full":     refreshState(domain.SessionOpen, "2025-04-01", "2025-06-30", 3, 3),
		"started":  refreshState(domain.SessionOpen, "2025-03-01", "2025-06-30", 10, 3),
		"ended":    refreshState(domain.SessionClosed, "2025-01-06", "2025-02-28", 10, 4),
	}}
	metrics := &recordingRefreshes{}
	stats := &countingInvalidator{}
	svc := NewLifecycleService(store, LifecycleConfig{}, metrics, stats, nil)
	svc.today = fixedClock("2025-03-15")
	ctx := context.Background()

	changed, deactivated, err := svc.Refresh(ctx, "upcoming")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, deactivated)

	changed, _, err = svc.Refresh(ctx, "full")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.SessionClosed, store.states["full"].Status)

	changed, _, err = svc.Refresh(ctx, "started")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, deactivated, err = svc.Refresh(ctx, "ended")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(4), deactivated)

	_, _, err = svc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.Equal(t, 5, metrics.calls)
	assert.Equal(t, 1, metrics.errs)
	assert.Equal(t, 3, stats.calls)
}

func TestLifecycleServiceScheduleRefreshRunsOnQueue(t *testing.T) {
	store := &mockRefreshStore{
		states: map[string]repository.RefreshState{
			"ses-1": refreshState(domain.SessionOpen, "2025-04-01", "2025-06-30", 2, 2),
			"ses-2": refreshState(domain.SessionOpen, "2025-04-01", "2025-06-30", 5, 1),
		},
		ids: []string{"ses-1", "ses-2", "gone"},
	}
	svc := NewLifecycleService(store, LifecycleConfig{Workers: 1, RetryDelay: 10 * time.Millisecond}, nil, nil, nil)
	svc.today = fixedClock("2025-03-15")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	require.NoError(t, svc.Sweep(ctx))

	require.Eventually(t, func() bool {
		return len(store.calls()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"ses-1", "ses-2"}, store.calls())
}

func TestLifecycleServiceStartRejectsBadSchedule(t *testing.T) {
	svc := NewLifecycleService(&mockRefreshStore{}, LifecycleConfig{Schedule: "every now and then"}, nil, nil, nil)

	err := svc.Start(context.Background())
	assert.Error(t, err)
}
