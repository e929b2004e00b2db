package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFailedDeliveries struct {
	since   time.Time
	records []entity.Delivery
	err     error
}

func (s *stubFailedDeliveries) FindFailedSince(ctx context.Context, since time.Time) ([]entity.Delivery, error) {
	s.since = since
	return s.records, s.err
}

func TestFailedDeliveriesEndpoint_DefaultWindow(t *testing.T) {
	stub := &stubFailedDeliveries{records: []entity.Delivery{
		{Id: 1, AlertId: 7, Channel: "telegram", Status: entity.DeliveryStatusFailed, Attempts: 3},
	}}

	rec := httptest.NewRecorder()
	handleFailedDeliveries(rec, httptest.NewRequest(http.MethodGet, "/deliveries/failed", nil), stub)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []entity.Delivery
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].AlertId)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), stub.since, time.Minute)
}

func TestFailedDeliveriesEndpoint_CustomWindow(t *testing.T) {
	stub := &stubFailedDeliveries{}

	rec := httptest.NewRecorder()
	handleFailedDeliveries(rec, httptest.NewRequest(http.MethodGet, "/deliveries/failed?window=1h", nil), stub)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), stub.since, time.Minute)
	// 没有失败记录时返回空数组而不是 null
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFailedDeliveriesEndpoint_BadWindow(t *testing.T) {
	rec := httptest.NewRecorder()
	handleFailedDeliveries(rec, httptest.NewRequest(http.MethodGet, "/deliveries/failed?window=soon", nil), &stubFailedDeliveries{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailedDeliveriesEndpoint_QueryError(t *testing.T) {
	rec := httptest.NewRecorder()
	handleFailedDeliveries(rec, httptest.NewRequest(http.MethodGet, "/deliveries/failed", nil),
		&stubFailedDeliveries{err: fmt.Errorf("db locked")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeHealth_ReportsStalledRunner(t *testing.T) {
	stalled := NewRunner(&countingTask{}, 10*time.Millisecond, 10*time.Millisecond)
	srv := ServeHealth("127.0.0.1:0", &stubFailedDeliveries{}, stalled)
	defer srv.Close()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	stalled.mu.Lock()
	stalled.lastFinish = time.Now()
	stalled.mu.Unlock()

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
