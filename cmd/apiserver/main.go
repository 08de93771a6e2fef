// API server entry point for PharmaLens.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/PharmaLens/internal/bootstrap"
	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/PharmaLens/internal/interfaces/http"
	"github.com/turtacn/PharmaLens/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: logger setup failed: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting PharmaLens API server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode))

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		logger.Fatal("pipeline assembly failed", logging.Err(err))
	}
	defer app.Close()

	checks := map[string]handlers.CheckFunc{}
	for name, fn := range app.HealthChecks() {
		checks[name] = fn
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Server:    cfg.Server,
		Analysis:  handlers.NewAnalysisHandler(app.Service, historyReader(app), logger),
		Health:    handlers.NewHealthHandler(checks, app.Metrics, logger),
		Logger:    logger,
		Collector: app.Collector,
		Metrics:   app.Metrics,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", logging.Err(err))
		}
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", logging.Err(err))
	}
	logger.Info("server stopped")
}

// loadConfig reads the config file when present, otherwise builds the config
// entirely from PHARMALENS_* environment variables.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "warning: config file %q not found, using environment variables\n", path)
	return config.LoadFromEnv()
}

// historyReader narrows the optional history repo to the handler interface,
// avoiding a typed-nil interface when persistence is disabled.
func historyReader(app *bootstrap.App) handlers.HistoryReader {
	if app.History == nil {
		return nil
	}
	return app.History
}
