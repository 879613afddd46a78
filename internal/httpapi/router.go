package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/observability/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handler        *Handler
	Tokens         TokenVerifier
	Metrics        *metrics.HTTPMetrics
	MetricsHandler http.Handler
	Logger         *zap.Logger
}

// NewRouter chi роутер с health, метриками и API доступности
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observe(cfg.Metrics, cfg.Logger))

	r.Get("/healthz", cfg.Handler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/professionals/{id}", func(p chi.Router) {
		p.Use(requireProfessional(cfg.Tokens))
		p.Get("/dates", cfg.Handler.Dates)
		p.Get("/slots", cfg.Handler.Slots)
		p.Get("/end-times", cfg.Handler.EndTimes)
		p.Get("/agenda", cfg.Handler.Agenda)
		p.Post("/validate", cfg.Handler.Validate)
	})

	return r
}

// observe считает запросы по шаблону маршрута и пишет debug лог
func observe(m *metrics.HTTPMetrics, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			m.ObserveRequest(route, status, elapsed.Seconds())
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("took", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
