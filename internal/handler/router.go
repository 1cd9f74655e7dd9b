package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toolbox/toolbox-go/internal/metrics"
	"github.com/toolbox/toolbox-go/internal/middleware"
	"github.com/toolbox/toolbox-go/internal/service"
)

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter

	Generator *service.GeneratorService
	QR        *service.QRService
	Convert   *service.ConvertService
	// Activity is nil when the database is unavailable; its routes are then not mounted.
	Activity *service.ActivityService

	JWTSecret      string
	MaxUploadBytes int64
}

// NewRouter builds the HTTP API.
//
// Middleware order: Recoverer → Logger → StatusMetrics, then RateLimiter on
// the tool routes and AdminAuth on the activity routes.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.StatusMetrics(m))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	genHandler := NewGeneratorHandler(deps.Generator)
	qrHandler := NewQRHandler(deps.QR)
	convertHandler := NewConvertHandler(deps.Convert, deps.MaxUploadBytes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Handler)
			}
			r.Post("/generate", genHandler.HandleGenerate)
			r.Post("/strength", genHandler.HandleStrength)
			r.Post("/qr", qrHandler.HandleGenerate)
			r.Post("/convert/{kind}/encode", convertHandler.HandleEncode)
			r.Post("/convert/{kind}/decode", convertHandler.HandleDecode)
		})

		if deps.Activity != nil {
			activityHandler := NewActivityHandler(deps.Activity)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(deps.JWTSecret))
				r.Get("/activity", activityHandler.HandleList)
				r.Get("/activity/summary", activityHandler.HandleSummary)
			})
		}
	})

	return r
}
