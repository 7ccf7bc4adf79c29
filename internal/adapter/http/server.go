package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/happiness-data-service/internal/dashboard"
	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

// Dashboard is the query surface served under /api/v1.
type Dashboard interface {
	Bounds() domain.YearBounds
	Countries(ctx context.Context) dashboard.Sourced[[]domain.CountrySummary]
	ComparableCountries(ctx context.Context) dashboard.Sourced[[]domain.CountrySummary]
	IndicatorTrend(ctx context.Context, country, indicator string, start, end int) (dashboard.Trend, error)
	HappinessScore(ctx context.Context, country string, year int) (dashboard.Sourced[domain.HappinessScore], error)
	Compare(ctx context.Context, country, indicator string, start, end int) (dashboard.Comparison, error)
	RegionalSummary(ctx context.Context, year int) (dashboard.Sourced[dashboard.RegionalSummary], error)
	RegionPerformers(ctx context.Context, region, metric string) (dashboard.Performers, error)
	CountryProfile(ctx context.Context, country string, timeframe domain.Timeframe) (dashboard.Profile, error)
}

// Server exposes the dashboard API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server. corsOrigins lists the browser origins
// allowed to call the API; "*" allows any.
func NewServer(addr string, corsOrigins []string, dash Dashboard, ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		dash:    dash,
		logger:  logger,
		metrics: metrics,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.instrument)
	api.HandleFunc("/countries", s.handleCountries).Methods(http.MethodGet)
	api.HandleFunc("/countries/comparable", s.handleComparableCountries).Methods(http.MethodGet)
	api.HandleFunc("/indicators", s.handleIndicators).Methods(http.MethodGet)
	api.HandleFunc("/countries/{code}/indicators/{indicator}", s.handleTrend).Methods(http.MethodGet)
	api.HandleFunc("/countries/{code}/happiness", s.handleHappiness).Methods(http.MethodGet)
	api.HandleFunc("/countries/{code}/compare/{indicator}", s.handleCompare).Methods(http.MethodGet)
	api.HandleFunc("/countries/{code}/profile", s.handleProfile).Methods(http.MethodGet)
	api.HandleFunc("/regions", s.handleRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions/{region}/performers", s.handlePerformers).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger}),
		handlers.PrintRecoveryStack(false),
	)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     recovery(cors(r)),
		ReadTimeout: 10 * time.Second,
		// Probe chains may walk several slow candidates before falling back.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// recoveryLogger routes gorilla's recovered panics into slog.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered", "panic", fmt.Sprint(v...))
}
