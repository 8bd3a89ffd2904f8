package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"redwatch/internal/actions"
	"redwatch/internal/api"
	"redwatch/internal/config"
	"redwatch/internal/constants"
	"redwatch/internal/dedup"
	"redwatch/internal/forward"
	"redwatch/internal/logger"
	"redwatch/internal/processor"
	"redwatch/internal/registry"
	"redwatch/pkg/circuitbreaker"
	"redwatch/pkg/health"
	"redwatch/pkg/metrics"
	"redwatch/pkg/middleware"
	"redwatch/pkg/ratelimit"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger

	cache     *dedup.Cache
	registry  *registry.Registry
	processor *processor.Service
	forwarder *forward.KafkaPublisher
	server    *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	a.cache = dedup.NewCache(a.logger)

	if err := a.initRegistry(ctx); err != nil {
		return fmt.Errorf("failed to initialize device registry: %w", err)
	}

	a.initProcessor()

	metrics.RegisterReceiverMetrics()
	if a.cfg.Forwarder.Enabled {
		metrics.RegisterForwarderMetrics()
	}
	if a.cfg.RateLimit.Enabled {
		metrics.RegisterRateLimitMetrics()
	}
	if a.cfg.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	a.initHTTPServer()
	return nil
}

func (a *App) initRegistry(ctx context.Context) error {
	repo := registry.NewFileRepository(a.cfg.Devices.Dir)
	a.registry = registry.New(repo, a.logger)

	if a.cfg.Devices.Dir == "" {
		a.logger.Infow("No device config directory configured, running with event-level data only")
		return nil
	}

	count, err := a.registry.Reload(ctx)
	if err != nil {
		// A missing or unreadable directory is not fatal; unconfigured
		// devices are processed with event-level data.
		a.logger.Warnw("Initial device config load failed",
			"dir", a.cfg.Devices.Dir,
			"error", err,
		)
		return nil
	}

	a.logger.Infow("Loaded device configurations", "devices", count)
	return nil
}

func (a *App) initProcessor() {
	var notifier *actions.WebhookNotifier
	if a.cfg.Actions.WebhookURL != "" {
		var cb *circuitbreaker.Wrapper
		if a.cfg.CircuitBreaker.Enabled {
			cbCfg := circuitbreaker.DefaultConfig("admin-webhook")
			if a.cfg.CircuitBreaker.MaxRequests > 0 {
				cbCfg.MaxRequests = a.cfg.CircuitBreaker.MaxRequests
			}
			if a.cfg.CircuitBreaker.Interval > 0 {
				cbCfg.Interval = a.cfg.CircuitBreaker.Interval * time.Second
			}
			if a.cfg.CircuitBreaker.Timeout > 0 {
				cbCfg.Timeout = a.cfg.CircuitBreaker.Timeout * time.Second
			}
			cb = circuitbreaker.NewWrapper(cbCfg)
		}
		timeout := time.Duration(a.cfg.Actions.TimeoutSeconds) * time.Second
		notifier = actions.NewWebhookNotifier(a.cfg.Actions.WebhookURL, timeout, cb, a.logger)
	}

	executor := actions.NewLogExecutor(a.logger, notifier)
	a.processor = processor.NewService(a.cache, a.registry, executor, a.logger)
	a.processor.SetRetention(a.retention())

	if a.cfg.Forwarder.Enabled {
		a.forwarder = forward.NewKafkaPublisher(
			a.cfg.Forwarder.Kafka.Brokers,
			a.cfg.Forwarder.Kafka.Topic,
			a.logger,
		)
		a.processor.SetForwarder(a.forwarder.Publish)
		a.logger.Infow("Event forwarder enabled",
			"brokers", a.cfg.Forwarder.Kafka.Brokers,
			"topic", a.cfg.Forwarder.Kafka.Topic,
		)
	}
}

func (a *App) initHTTPServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RecoveryMiddleware(a.logger))

	if a.cfg.RateLimit.Enabled {
		rlCfg := ratelimit.DefaultConfig()
		rlCfg.RPS = a.cfg.RateLimit.RPS
		rlCfg.Burst = a.cfg.RateLimit.Burst
		if a.cfg.RateLimit.CleanupInterval > 0 {
			rlCfg.CleanupInterval = time.Duration(a.cfg.RateLimit.CleanupInterval) * time.Second
		}
		if a.cfg.RateLimit.MaxAge > 0 {
			rlCfg.MaxAge = time.Duration(a.cfg.RateLimit.MaxAge) * time.Second
		}
		router.Use(ratelimit.Middleware(rlCfg))
	}

	handler := api.NewHandler(a.processor, a.cache, a.registry, a.healthChecks(), a.logger)
	handler.RegisterRoutes(router)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeoutSeconds * time.Second,
		WriteTimeout: a.cfg.Server.WriteTimeoutSeconds * time.Second,
	}
}

// retention is the configured cache entry age ceiling, zero when the
// config leaves the default in place.
func (a *App) retention() time.Duration {
	return time.Duration(a.cfg.Dedup.RetentionSeconds) * time.Second
}

func (a *App) healthChecks() *health.CheckerRegistry {
	checks := health.NewCheckerRegistry()

	if dir := a.cfg.Devices.Dir; dir != "" {
		checks.Register(health.NewFuncChecker("device_config_dir", func(ctx context.Context) error {
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("device config dir unavailable: %w", err)
			}
			return nil
		}))
	}

	return checks
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Infow("HTTP server starting", "port", a.cfg.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return gCtx.Err()
	})

	if a.cfg.Dedup.SweepIntervalSeconds > 0 {
		interval := time.Duration(a.cfg.Dedup.SweepIntervalSeconds) * time.Second
		g.Go(func() error {
			a.logger.Infow("Cache sweeper starting", "interval", interval)
			return a.cache.StartSweeper(gCtx, interval, a.retention())
		})
	}

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Infow("Shutting down event receiver")

	if a.forwarder != nil {
		if err := a.forwarder.Close(); err != nil {
			return fmt.Errorf("forwarder close error: %w", err)
		}
	}
	return nil
}
