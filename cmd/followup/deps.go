package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/followup/internal/adapter/postgres"
	"github.com/Strob0t/followup/internal/adapter/resilient"
	"github.com/Strob0t/followup/internal/adapter/ristretto"
	"github.com/Strob0t/followup/internal/adapter/tiered"
	"github.com/Strob0t/followup/internal/config"
	"github.com/Strob0t/followup/internal/port/cache"
	"github.com/Strob0t/followup/internal/port/clock"
	"github.com/Strob0t/followup/internal/port/notifier"
	"github.com/Strob0t/followup/internal/service"
)

// core is the lifecycle coordinator with the resources behind it.
type core struct {
	pool   *pgxpool.Pool
	store  *resilient.Store
	pg     *postgres.Store
	notify *service.NotificationService
	coord  *service.Coordinator
	l1     *ristretto.Cache
}

func (c *core) Close() {
	if c.l1 != nil {
		c.l1.Close()
	}
	c.pool.Close()
}

// openStore connects to PostgreSQL and wraps the store with retry and
// circuit breaking.
func openStore(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *postgres.Store, *resilient.Store, error) {
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: %w", err)
	}
	pg := postgres.NewStore(pool)
	store := resilient.NewStore(pg, resilient.Options{
		Attempts:       cfg.Retry.Attempts,
		Backoff:        cfg.Retry.Backoff,
		MaxFailures:    cfg.Breaker.MaxFailures,
		BreakerTimeout: cfg.Breaker.Timeout,
	})
	return pool, pg, store, nil
}

// notifierSettings maps the config onto the notifier registry's settings.
func notifierSettings(cfg *config.Config) map[string]map[string]string {
	return map[string]map[string]string{
		"email": {
			"host":     cfg.SMTP.Host,
			"port":     strconv.Itoa(cfg.SMTP.Port),
			"username": cfg.SMTP.Username,
			"password": cfg.SMTP.Password,
			"from":     cfg.SMTP.From,
		},
		"slack":   {"webhook_url": cfg.Escalation.SlackWebhookURL},
		"discord": {"webhook_url": cfg.Escalation.DiscordWebhookURL},
	}
}

// buildNotifications instantiates the configured notifiers behind circuit
// breakers. Escalations are the only events mirrored to chat channels.
func buildNotifications(cfg *config.Config) (*service.NotificationService, error) {
	active, skipped, err := notifier.Build(notifierSettings(cfg))
	if err != nil {
		return nil, err
	}
	wrapped := make([]notifier.Notifier, 0, len(active))
	for _, n := range active {
		wrapped = append(wrapped, resilient.NewNotifier(n, cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
	}
	if len(skipped) > 0 {
		slog.Info("notifiers not configured", "skipped", skipped)
	}
	ns := service.NewNotificationService(wrapped, []string{service.SourceEscalation})
	if !ns.Capabilities().Addressed {
		slog.Warn("no mail notifier configured; reminders and escalations will fail")
	}
	return ns, nil
}

// newCore wires the coordinator for one process. l2 may be nil, in which case
// directory lookups are cached in process only.
func newCore(ctx context.Context, cfg *config.Config, clk clock.Clock, l2 cache.Cache) (*core, error) {
	pool, pg, store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ns, err := buildNotifications(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("cache: %w", err)
	}
	var dirCache cache.Cache = l1
	if l2 != nil {
		dirCache = tiered.New(l1, l2, cfg.Cache.DirectoryTTL)
	}
	resolver := service.NewDirectoryResolver(store, dirCache, cfg.Cache.DirectoryTTL)

	coord := service.NewCoordinator(store, store, ns, resolver, clk, service.CoordinatorConfig{
		Policy:     cfg.Policy.Lifecycle(),
		Rules:      cfg.Policy.Rules,
		Supervisor: cfg.Escalation.Recipient,
	})
	coord.SetMirror(ns)

	return &core{pool: pool, store: store, pg: pg, notify: ns, coord: coord, l1: l1}, nil
}
