package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
)

// minimalConfig has every optional backend disabled so assembly never dials
// out.
func minimalConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Generative.APIKey = "test-key"
	config.ApplyDefaults(cfg)
	return cfg
}

func TestNew_MinimalPipeline(t *testing.T) {
	app, err := New(context.Background(), minimalConfig(), logging.NewNopLogger(), Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Service)
	assert.NotNil(t, app.Collector)
	assert.NotNil(t, app.Metrics)
	assert.Nil(t, app.History)
	assert.Empty(t, app.HealthChecks())
}

func TestNew_SkipMetrics(t *testing.T) {
	app, err := New(context.Background(), minimalConfig(), logging.NewNopLogger(), Options{SkipMetrics: true})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Collector)
	assert.Nil(t, app.Metrics)
	assert.NotNil(t, app.Service)
}

func TestClose_SafeOnPartialApp(t *testing.T) {
	app := &App{Logger: logging.NewNopLogger()}
	app.Close()
}
