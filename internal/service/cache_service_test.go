package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type cacheRepoStub struct {
	entries    map[string][]byte
	ttls       map[string]time.Duration
	invalidate []string
	getErr     error
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (r *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	if r.getErr != nil {
		return r.getErr
	}
	raw, ok := r.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.entries[key] = raw
	r.ttls[key] = ttl
	return nil
}

func (r *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	r.invalidate = append(r.invalidate, pattern)
	return nil
}

func scrape(t *testing.T, metrics *MetricsService) string {
	t.Helper()
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestCacheServiceHitMissAndMetrics(t *testing.T) {
	repo := newCacheRepoStub()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)

	var dest []string
	hit, err := svc.Get(context.Background(), "timetable:ac-1", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "timetable:ac-1", []string{"ts-1"}, 0))
	assert.Equal(t, time.Minute, repo.ttls["timetable:ac-1"])

	hit, err = svc.Get(context.Background(), "timetable:ac-1", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"ts-1"}, dest)

	body := scrape(t, metrics)
	assert.Contains(t, body, "cache_hits_total 1")
	assert.Contains(t, body, "cache_misses_total 1")
	assert.Contains(t, body, "cache_hit_ratio 0.5")

	require.NoError(t, svc.Invalidate(context.Background(), "timetable:ac-1:*"))
	assert.Equal(t, []string{"timetable:ac-1:*"}, repo.invalidate)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, nil, 0, nil, false)

	assert.False(t, svc.Enabled())
	require.NoError(t, svc.Set(context.Background(), "k", "v", time.Second))
	assert.Empty(t, repo.entries)

	var nilSvc *CacheService
	hit, err := nilSvc.Get(context.Background(), "k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	repo := newCacheRepoStub()
	repo.getErr = errors.New("connection reset")
	svc := NewCacheService(repo, nil, 0, nil, true)

	hit, err := svc.Get(context.Background(), "k", new(string))
	assert.False(t, hit)
	assert.EqualError(t, err, "connection reset")
}

func TestMetricsServiceScheduling(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordReconcile("conflict", 20*time.Millisecond)
	metrics.RecordConflicts(2)
	metrics.RecordConflicts(0)
	metrics.RecordSessionDates(4, 1)

	body := scrape(t, metrics)
	assert.Contains(t, body, `schedule_reconcile_total{outcome="conflict"} 1`)
	assert.Contains(t, body, "schedule_conflicts_total 2")
	assert.Contains(t, body, `session_dates_written_total{op="insert"} 4`)
	assert.Contains(t, body, `session_dates_written_total{op="delete"} 1`)

	var nilMetrics *MetricsService
	assert.NotPanics(t, func() {
		nilMetrics.RecordReconcile("applied", time.Second)
		nilMetrics.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
	})
}
