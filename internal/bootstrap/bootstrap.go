// Package bootstrap assembles the analysis pipeline and its optional backends
// from a validated configuration.  Both the API server and the CLI build
// their dependency graph through here.
package bootstrap

import (
	"context"

	"github.com/turtacn/PharmaLens/internal/application/analysis"
	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/PharmaLens/internal/infrastructure/database/redis"
	"github.com/turtacn/PharmaLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/openai"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/openfda"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/pubchem"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/rxnorm"
	"github.com/turtacn/PharmaLens/internal/infrastructure/storage/minio"
	"github.com/turtacn/PharmaLens/internal/intelligence/chem_resolver"
	"github.com/turtacn/PharmaLens/internal/intelligence/dossier_gpt"
	"github.com/turtacn/PharmaLens/internal/intelligence/tox_net"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// metricsNamespace prefixes every Prometheus metric the platform exports.
const metricsNamespace = "pharmalens"

// App is the assembled dependency graph.  Optional backends are nil when
// disabled in configuration.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector appmetrics.MetricsCollector
	Metrics   *appmetrics.AppMetrics
	Service   analysis.Service
	History   *postgres.HistoryRepo

	redisClient *redis.Client
	pgConn      *postgres.Connection
	producer    *kafka.Producer
}

// Options tunes what New wires up.  The zero value wires everything the
// configuration enables.
type Options struct {
	// SkipMetrics leaves Collector and Metrics nil.  Used by the CLI, which
	// has no metrics endpoint to scrape.
	SkipMetrics bool
}

// New builds the full pipeline from cfg.  A failure to reach an enabled
// backend is fatal; disabled backends are skipped silently.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	app := &App{Config: cfg, Logger: logger}

	if !opts.SkipMetrics {
		collector, err := appmetrics.NewMetricsCollector(appmetrics.CollectorConfig{
			Namespace:            metricsNamespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "metrics collector setup failed")
		}
		app.Collector = collector
		app.Metrics = appmetrics.NewAppMetrics(collector)
	}

	var resolutionCache chem_resolver.ResolutionCache
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redisClient = client
		cache := redis.NewCache(client, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		resolutionCache = redis.NewResolutionCache(cache, cfg.Pipeline.CacheTTL, logger)
	}

	svcOpts := analysis.Options{Metrics: app.Metrics}

	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.pgConn = conn
		repo, err := postgres.NewHistoryRepo(ctx, conn, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.History = repo
		svcOpts.History = repo
	}

	if cfg.Kafka.Enabled {
		app.producer = kafka.NewProducer(cfg.Kafka, logger, app.Metrics)
		svcOpts.Publisher = app.producer
	}

	if cfg.MinIO.Enabled {
		client, err := minio.NewClient(ctx, cfg.MinIO, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		svcOpts.Artifacts = minio.NewArtifactStore(client, app.Metrics)
	}

	resolver := chem_resolver.NewResolver(
		pubchem.NewClient(cfg.Sources, logger, app.Metrics), resolutionCache, logger)
	analyzer := dossier_gpt.NewAnalyzer(
		openai.NewClient(cfg.Generative, logger, app.Metrics), logger)
	validator := analysis.NewValidator(
		rxnorm.NewClient(cfg.Sources, logger, app.Metrics),
		openfda.NewClient(cfg.Sources, logger, app.Metrics), logger)
	engine := tox_net.NewEngine(cfg.Pipeline.ScoringSeed, logger)

	app.Service = analysis.NewService(resolver, analyzer, validator, engine,
		cfg.Pipeline, logger, svcOpts)

	return app, nil
}

// HealthChecks returns named readiness probes for every connected backend.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if a.redisClient != nil {
		checks["redis"] = a.redisClient.Ping
	}
	if a.pgConn != nil {
		checks["postgres"] = a.pgConn.HealthCheck
	}
	return checks
}

// Close releases every backend connection.  Safe to call on a partially
// constructed App.
func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.Logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
	if a.pgConn != nil {
		a.pgConn.Close()
	}
}
