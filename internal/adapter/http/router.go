package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cfotel "github.com/Strob0t/followup/internal/adapter/otel"
	"github.com/Strob0t/followup/internal/middleware"
	"github.com/Strob0t/followup/internal/port/cache"
)

// RouterConfig wires the cross-cutting pieces of the HTTP server.
type RouterConfig struct {
	CORSOrigin     string
	ServiceName    string
	Timeout        time.Duration
	RateLimiter    *middleware.RateLimiter
	Idempotency    cache.Cache
	IdempotencyTTL time.Duration
	Health         http.HandlerFunc
	WebSocket      http.HandlerFunc
}

// NewRouter builds the complete handler: middleware, /health, /ws and the
// versioned API.
func NewRouter(cfg RouterConfig, h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logger)
	r.Use(chimw.Recoverer)
	r.Use(CORS(cfg.CORSOrigin))
	r.Use(SecurityHeaders)
	if cfg.ServiceName != "" {
		r.Use(cfotel.HTTPMiddleware(cfg.ServiceName))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}

	if cfg.Health != nil {
		r.Get("/health", cfg.Health)
	}
	if cfg.WebSocket != nil {
		r.Get("/ws", cfg.WebSocket)
	}

	r.Group(func(r chi.Router) {
		if cfg.Timeout > 0 {
			r.Use(chimw.Timeout(cfg.Timeout))
		}
		if cfg.Idempotency != nil {
			r.Use(middleware.Idempotency(cfg.Idempotency, cfg.IdempotencyTTL))
		}
		MountRoutes(r, h)
	})
	return r
}
