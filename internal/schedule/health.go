package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultFailedWindow = 24 * time.Hour

// FailedDeliveries 运维排查用的投递失败审计查询
type FailedDeliveries interface {
	FindFailedSince(ctx context.Context, since time.Time) ([]entity.Delivery, error)
}

// ServeHealth 暴露存活探针, prometheus 指标和投递失败审计
func ServeHealth(addr string, deliveries FailedDeliveries, runners ...*Runner) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for _, r := range runners {
			if !r.Alive() {
				http.Error(w, "stalled: "+r.task.Name(), http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/deliveries/failed", func(w http.ResponseWriter, req *http.Request) {
		handleFailedDeliveries(w, req, deliveries)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("health server exited", "error", err)
		}
	}()
	return srv
}

// GET /deliveries/failed?window=1h 最近投递失败的审计记录, 默认看 24h
func handleFailedDeliveries(w http.ResponseWriter, req *http.Request, deliveries FailedDeliveries) {
	if deliveries == nil {
		http.Error(w, "delivery audit not configured", http.StatusNotFound)
		return
	}

	window := defaultFailedWindow
	if raw := req.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			http.Error(w, "invalid window: "+raw, http.StatusBadRequest)
			return
		}
		window = d
	}

	failed, err := deliveries.FindFailedSince(req.Context(), time.Now().Add(-window))
	if err != nil {
		slog.Error("failed deliveries query failed", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if failed == nil {
		failed = []entity.Delivery{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(failed)
}
