package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffinvoice/internal/domain/invoice"
	"staffinvoice/internal/domain/lineitem"
	"staffinvoice/internal/platform/config"
	"staffinvoice/internal/platform/db"
	"staffinvoice/internal/platform/jobs"
	"staffinvoice/internal/platform/logging"
	"staffinvoice/internal/platform/metrics"
)

type app struct {
	cfg     config.Config
	logger  *slog.Logger
	pool    *pgxpool.Pool
	metrics *metrics.Collector
	plans   *invoice.PlanCache
	service *invoice.Service
	jobs    *jobs.Service
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.New(cfg)
	slog.SetDefault(logger)
	return buildApp(ctx, cfg, logger)
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: metrics.New()}

	var store invoice.StoreAPI
	var runStore jobs.RunStore
	if cfg.PersistenceEnabled() {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		a.pool = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		s := invoice.NewStore(pool)
		store, runStore = s, s
	}

	opts := []lineitem.Option{lineitem.WithWorkers(cfg.EvalWorkers), lineitem.WithLogger(logger)}
	if cfg.MetricsEnabled {
		opts = append(opts, lineitem.WithRecorder(a.metrics))
	}
	a.plans = invoice.NewPlanCache(cfg.PlanCacheSize)
	a.service = invoice.NewService(store, lineitem.NewRunner(opts...), a.plans, logger)

	a.jobs = jobs.New(runStore, cfg)
	a.jobs.Logger = logger
	if cfg.MetricsEnabled {
		a.jobs.Recorder = a.metrics
	}
	return a, nil
}

func (a *app) Close() {
	if a.cfg.MetricsEnabled {
		snapshot := a.metrics.Snapshot()
		snapshot["planCacheHits"], snapshot["planCacheMisses"] = a.plans.Stats()
		keys := make([]string, 0, len(snapshot))
		for key := range snapshot {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		args := make([]any, 0, 2*len(keys))
		for _, key := range keys {
			args = append(args, key, snapshot[key])
		}
		a.logger.Info("metrics", args...)
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
