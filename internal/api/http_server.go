package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
)

// HeaderUserID carries the identity of the caller. There is no session
// layer; every identity-bound endpoint trusts this header.
const HeaderUserID = "X-Sharer-User-Id"

// HTTPServer exposes the sharing service over plain HTTP.
type HTTPServer struct {
	cfg      config.APIConfig
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	reports  domain.ReportScheduler
	cache    domain.ViewCache
	logger   *zerolog.Logger
	limiter  *rateLimiter
	server   *http.Server
}

func NewHTTPServer(
	cfg config.APIConfig,
	users domain.UserService,
	items domain.ItemService,
	bookings domain.BookingService,
	requests domain.RequestService,
	reports domain.ReportScheduler,
	cache domain.ViewCache,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		reports:  reports,
		cache:    cache,
		logger:   logger,
		limiter:  newRateLimiter(&cfg),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", srv.handleUserCreate)
	mux.HandleFunc("GET /users", srv.handleUserList)
	mux.HandleFunc("GET /users/{id}", srv.handleUserGet)
	mux.HandleFunc("PATCH /users/{id}", srv.handleUserUpdate)
	mux.HandleFunc("DELETE /users/{id}", srv.handleUserDelete)

	mux.HandleFunc("POST /items", srv.handleItemCreate)
	mux.HandleFunc("GET /items", srv.handleItemList)
	mux.HandleFunc("GET /items/search", srv.handleItemSearch)
	mux.HandleFunc("GET /items/{id}", srv.handleItemGet)
	mux.HandleFunc("PATCH /items/{id}", srv.handleItemUpdate)
	mux.HandleFunc("POST /items/{id}/comment", srv.handleCommentCreate)

	mux.HandleFunc("POST /bookings", srv.handleBookingCreate)
	mux.HandleFunc("GET /bookings", srv.handleBookerBookings)
	mux.HandleFunc("GET /bookings/owner", srv.handleOwnerBookings)
	mux.HandleFunc("GET /bookings/{id}", srv.handleBookingGet)
	mux.HandleFunc("PATCH /bookings/{id}", srv.handleBookingApproval)

	mux.HandleFunc("POST /requests", srv.handleRequestCreate)
	mux.HandleFunc("GET /requests", srv.handleRequestListOwn)
	mux.HandleFunc("GET /requests/all", srv.handleRequestListOthers)
	mux.HandleFunc("GET /requests/{id}", srv.handleRequestGet)

	mux.HandleFunc("POST /admin/reports", srv.handleReportExport)

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the fully wrapped handler, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

var idSegment = regexp.MustCompile(`/\d+`)

// routeLabel collapses numeric path segments so the per-endpoint metric
// stays low-cardinality.
func routeLabel(method, path string) string {
	return method + " " + idSegment.ReplaceAllString(path, "/{id}")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
