package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"proforma-engine/logger"
)

type RouterConfig struct {
	ProForma  *ProFormaHandler
	Snapshots *SnapshotHandler
	Health    *HealthHandler
	Limiter   *RateLimiter // nil disables rate limiting
	Log       logger.Logger
}

// NewRouter registers every route. Calculation routes go through the rate
// limiter; health and metrics do not.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	limited := func(pattern string, cost int, h http.HandlerFunc) {
		var handler http.Handler = h
		if cfg.Limiter != nil {
			handler = RateLimitMiddleware(cfg.Limiter, cost, cfg.Log, handler)
		}
		mux.Handle(pattern, MetricsMiddleware(pattern, handler))
	}

	limited("/proforma/calculate", costCalculation, cfg.ProForma.Calculate)
	limited("/proforma/sensitivity", costSensitivity, cfg.ProForma.Sensitivity)
	limited("/proforma/unlevered-irr", costUnlevered, cfg.ProForma.UnleveredIRR)
	limited("/proforma/amortization", costLookup, cfg.ProForma.Amortization)
	limited("/proforma/hold-period", costHoldPeriod, cfg.ProForma.RecommendHoldPeriod)
	limited("/proforma/validate", costLookup, cfg.ProForma.Validate)
	limited("/proforma/readiness", costLookup, cfg.ProForma.Readiness)

	if cfg.Snapshots != nil {
		limited("PUT /properties/{id}/snapshots", costLookup, cfg.Snapshots.Save)
		limited("GET /properties/{id}/snapshots", costLookup, cfg.Snapshots.List)
		limited("GET /properties/{id}/snapshots/latest", costLookup, cfg.Snapshots.Latest)
		limited("POST /properties/{id}/calculate", costCalculation, cfg.Snapshots.Calculate)
	}

	if cfg.Health != nil {
		mux.HandleFunc("GET /healthz", cfg.Health.Healthz)
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
