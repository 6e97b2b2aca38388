package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	cfhttp "github.com/Strob0t/followup/internal/adapter/http"
	cfnats "github.com/Strob0t/followup/internal/adapter/nats"
	"github.com/Strob0t/followup/internal/adapter/natskv"
	cfotel "github.com/Strob0t/followup/internal/adapter/otel"
	"github.com/Strob0t/followup/internal/adapter/postgres"
	"github.com/Strob0t/followup/internal/adapter/ws"
	"github.com/Strob0t/followup/internal/domain/schedule"
	"github.com/Strob0t/followup/internal/middleware"
	"github.com/Strob0t/followup/internal/port/clock"
	"github.com/Strob0t/followup/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	requestTimeout  = 30 * time.Second
)

func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"scheduler", cfg.Scheduler.Enabled,
	)

	// --- Telemetry ---

	shutdownOTEL, err := cfotel.Setup(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTEL(sctx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()
	metrics, err := cfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}

	// --- Infrastructure ---

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := cfnats.Connect(ctx, cfg.NATS.URL, cfg.NATS.Stream)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() {
		if err := queue.Drain(); err != nil {
			slog.Warn("nats drain", "error", err)
		}
		_ = queue.Close()
	}()

	l2, err := natskv.Open(ctx, queue.JetStream(), cfg.Cache.L2Bucket, cfg.Cache.L2TTL)
	if err != nil {
		return fmt.Errorf("directory cache: %w", err)
	}
	idem, err := natskv.Open(ctx, queue.JetStream(), cfg.Idempotency.Bucket, cfg.Idempotency.TTL)
	if err != nil {
		return fmt.Errorf("idempotency store: %w", err)
	}

	loc := cfg.Location()
	clk := clock.System{Location: loc}

	// --- Services ---

	c, err := newCore(ctx, cfg, clk, l2)
	if err != nil {
		return err
	}
	defer c.Close()
	slog.Info("postgres connected", "notifiers", c.notify.NotifierCount())

	hub := ws.NewHub(originPatterns(cfg.Server.CORSOrigin)...)
	defer hub.Close()

	c.coord.SetQueue(queue)
	c.coord.SetBroadcaster(hub)
	c.coord.SetMetrics(metrics)

	inbound := service.NewInboundConsumer(queue, c.coord)
	if err := inbound.Start(ctx); err != nil {
		return fmt.Errorf("inbound consumer: %w", err)
	}
	defer inbound.Stop()

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst, "/health", "/ws")
	limiter.StartCleanup(ctx, cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)

	router := cfhttp.NewRouter(cfhttp.RouterConfig{
		CORSOrigin:     cfg.Server.CORSOrigin,
		ServiceName:    cfg.OTEL.ServiceName,
		Timeout:        requestTimeout,
		RateLimiter:    limiter,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Idempotency.TTL,
		Health: cfhttp.Health(
			cfhttp.HealthCheck{Name: "postgres", Check: c.pool.Ping},
			cfhttp.HealthCheck{Name: "nats", Check: func(context.Context) error {
				if !queue.IsConnected() {
					return errors.New("disconnected")
				}
				return nil
			}},
		),
		WebSocket: hub.HandleWS,
	}, &cfhttp.Handlers{Lifecycle: c.coord})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if cfg.Scheduler.Enabled {
		reminders, err := schedule.Parse(cfg.Scheduler.ReminderCron)
		if err != nil {
			return fmt.Errorf("reminder schedule: %w", err)
		}
		escalations, err := schedule.Parse(cfg.Scheduler.EscalationCron)
		if err != nil {
			return fmt.Errorf("escalation schedule: %w", err)
		}
		sched := service.NewScheduler(c.coord, reminders.In(loc), escalations.In(loc), clk, cfg.Scheduler.Tick)
		g.Go(func() error {
			slog.Info("scheduler started", "reminders", reminders.String(), "escalations", escalations.String(), "tz", loc.String())
			return sched.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// originPatterns turns the CORS origin URL into a WebSocket origin pattern.
func originPatterns(origin string) []string {
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return []string{origin}
	}
	return []string{u.Host}
}
