package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"guidefeed/internal/app"
	"guidefeed/internal/config"
)

// Ceiling on a single request. A full multi-day build issues dozens of
// upstream calls, so this is far above the per-call client timeout.
const defaultRequestTimeout = 5 * time.Minute

type Server struct {
	logger zerolog.Logger
	guide  *app.GuideService
	cfg    config.Config

	requestTimeout time.Duration
}

func NewServer(logger zerolog.Logger, guide *app.GuideService, cfg config.Config) *Server {
	return &Server{logger: logger, guide: guide, cfg: cfg, requestTimeout: defaultRequestTimeout}
}

// WithRequestTimeout overrides the per-request ceiling (tests shrink it).
func (s *Server) WithRequestTimeout(d time.Duration) *Server {
	if d > 0 {
		s.requestTimeout = d
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))
	r.Use(responseTime)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Get("/xmltv", s.handleGuide)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
	})

	return r
}
