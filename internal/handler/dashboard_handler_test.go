package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/middleware"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type fakeDashboardSrv struct {
	stats *models.DashboardStats
	hit   bool
	err   error
}

func (f *fakeDashboardSrv) Stats(context.Context) (*models.DashboardStats, bool, error) {
	return f.stats, f.hit, f.err
}

func TestDashboardHandlerStatsReportsCacheHit(t *testing.T) {
	h := NewDashboardHandler(&fakeDashboardSrv{
		stats: &models.DashboardStats{UnpaidInvoices: 4, Students: 12},
		hit:   true,
	})

	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)
	middleware.ResponseMeta()(c)
	h.Stats(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(envelope.Data, &stats))
	assert.Equal(t, 4, stats.UnpaidInvoices)
	assert.Equal(t, 12, stats.Students)
}

func TestDashboardHandlerStatsError(t *testing.T) {
	h := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrInternal})
	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)

	h.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
