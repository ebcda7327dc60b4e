package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/chapterhq/ams/pkg/api"
	"github.com/chapterhq/ams/pkg/audit"
	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/authz/cache"
	"github.com/chapterhq/ams/pkg/bulk"
	"github.com/chapterhq/ams/pkg/catalog"
	"github.com/chapterhq/ams/pkg/config"
	"github.com/chapterhq/ams/pkg/observability"
	"github.com/chapterhq/ams/pkg/org"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting AMS authorization server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		registry *prometheus.Registry
		metrics  *observability.Metrics
	)
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
	}

	// Role catalog, builtin roles plus the optional custom file
	cat := catalog.Builtin()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			logger.WithError(err).Error("Failed to load role catalog")
			os.Exit(1)
		}
		logger.WithField("path", cfg.Catalog.Path).Infof("Loaded %d roles", cat.Len())

		if cfg.Catalog.Watch {
			watchLog := logrus.New()
			watcher, err := catalog.NewWatcher(cat, cfg.Catalog.Path, watchLog)
			if err != nil {
				logger.WithError(err).Error("Failed to watch role catalog")
				os.Exit(1)
			}
			if metrics != nil {
				watcher.OnReload(metrics.ObserveCatalogReload)
			}
			go func() {
				if err := watcher.Run(ctx); err != nil {
					logger.WithError(err).Warn("Catalog watcher stopped")
				}
			}()
		}
	}

	// Assignment cache
	var (
		assignmentCache cache.Cache[[]authz.RoleAssignment]
		cacheStats      func() cache.Stats
		redisClient     *redis.Client
	)
	switch cfg.Cache.Backend {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		rc := cache.NewRedis[[]authz.RoleAssignment](redisClient, "ams:assignments:", cfg.Cache.TTL)
		assignmentCache = rc
		cacheStats = rc.Stats
	default:
		mc := cache.NewMemory[[]authz.RoleAssignment](cfg.Cache.MaxEntries, cfg.Cache.TTL)
		assignmentCache = mc
		cacheStats = mc.Stats
	}
	if metrics != nil {
		registry.MustRegister(observability.NewAssignmentCacheCollector(func() observability.CacheStats {
			s := cacheStats()
			return observability.CacheStats{
				Hits:          s.Hits,
				Misses:        s.Misses,
				Invalidations: s.Invalidations,
				Entries:       s.Len,
			}
		}))
	}

	// Audit sinks
	var (
		sinks   []audit.Logger
		querier audit.Querier
		auditDB *sql.DB
	)
	for _, sink := range cfg.Audit.Sinks {
		switch sink {
		case "memory":
			mem := audit.NewMemoryLogger()
			sinks = append(sinks, mem)
			querier = mem
		case "file":
			fl, err := audit.NewFileLogger(audit.FileLoggerConfig{
				BasePath: cfg.Audit.FileDir,
				MaxSize:  cfg.Audit.FileMaxBytes,
				MaxFiles: cfg.Audit.FileMaxFiles,
			})
			if err != nil {
				logger.WithError(err).Error("Failed to open audit file sink")
				os.Exit(1)
			}
			sinks = append(sinks, fl)
		case "postgres":
			auditDB, err = sql.Open("postgres", cfg.Audit.PostgresURL)
			if err != nil {
				logger.WithError(err).Error("Failed to connect to audit database")
				os.Exit(1)
			}
			dbl := audit.NewDBLogger(auditDB)
			if err := dbl.InitSchema(ctx); err != nil {
				logger.WithError(err).Error("Failed to initialize audit schema")
				os.Exit(1)
			}
			sinks = append(sinks, dbl)
			querier = dbl
		}
	}
	auditLog := audit.NewMultiLogger(sinks...)
	if metrics != nil {
		auditLog.Instrument(metrics.ObserveAuditEntry, metrics.ObserveAuditSinkFailure)
	}

	// Assignments, resolver, engine, executor
	assignments := authz.NewMemoryStore()
	resolver := authz.NewResolver(assignmentCache, assignments.ForMember)
	assignments.OnChange(func(memberID string) { resolver.Invalidate(context.Background(), memberID) })

	engineOpts := []authz.Option{
		authz.WithResolver(resolver),
		authz.WithAuditLogger(auditLog),
	}
	executorOpts := []bulk.ExecutorOption{bulk.WithAuditLogger(auditLog)}
	if metrics != nil {
		engineOpts = append(engineOpts, authz.WithDecisionObserver(metrics.ObserveDecision))
		executorOpts = append(executorOpts, bulk.WithRecorder(metrics))
	}

	engine := authz.NewEngine(cat, engineOpts...)

	directory := org.NewMemory()
	executor := bulk.NewExecutor(directory, executorOpts...)

	server := api.NewServer(engine, executor, cat, directory, querier, assignments)

	var handler http.Handler = server
	if metrics != nil {
		metrics.CatalogRolesTotal.Set(float64(cat.Len()))
		handler = observability.HTTPMetricsMiddleware(metrics)(server)
	}
	go serveHealth(cfg, registry, auditDB, redisClient, cat, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error { return auditLog.Close() })
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error { return redisClient.Close() })
	}
	if auditDB != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error { return auditDB.Close() })
	}

	go func() {
		logger.Infof("Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

// serveHealth runs the health and metrics listener on its own port so
// probes stay reachable while the API drains.
func serveHealth(cfg *config.Config, registry *prometheus.Registry, db *sql.DB, redisClient *redis.Client, cat *catalog.Catalog, logger *observability.Logger) {
	mux := http.NewServeMux()
	checker := observability.NewHealthChecker(db, redisClient, cat.Len)
	observability.RegisterHealthRoutes(mux, checker)
	if registry != nil {
		observability.RegisterMetricsEndpoint(mux, registry)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Health endpoints on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Warn("Health server stopped")
	}
}
