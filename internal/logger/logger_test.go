package logger

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/Raoof128/SCRVS/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, hclog.Trace, parseLogLevel("trace"))
	assert.Equal(t, hclog.Debug, parseLogLevel("DEBUG"))
	assert.Equal(t, hclog.Warn, parseLogLevel("Warn"))
	assert.Equal(t, hclog.Error, parseLogLevel("error"))
	assert.Equal(t, hclog.Info, parseLogLevel("info"))
	assert.Equal(t, hclog.Info, parseLogLevel(""))
	assert.Equal(t, hclog.Info, parseLogLevel("nonsense"))
}

func TestEnvOverridesConfiguredLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logger.Level = "error"
	t.Setenv("SCRVS_LOG_LEVEL", "debug")
	assert.Equal(t, hclog.Debug, determineLogLevel(&cfg))

	t.Setenv("SCRVS_LOG_LEVEL", "")
	assert.Equal(t, hclog.Error, determineLogLevel(&cfg))
}

func TestNewLoggerName(t *testing.T) {
	cfg := config.Default()
	log := New(&cfg, "scrvs")
	assert.Equal(t, "scrvs", log.Name())
	assert.True(t, log.IsInfo())
}
