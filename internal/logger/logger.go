package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/Raoof128/SCRVS/internal/config"
)

// New creates an hclog.Logger from the configuration and the provided name.
// The SCRVS_LOG_LEVEL environment variable overrides the configured level.
func New(cfg *config.Config, name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		JSONFormat:      cfg.Logger.JSONFormat,
		IncludeLocation: cfg.Logger.IncludeLocation,
		DisableTime:     true,
		Output:          os.Stderr,
		Level:           determineLogLevel(cfg),
	})
}

func determineLogLevel(cfg *config.Config) hclog.Level {
	if env := os.Getenv("SCRVS_LOG_LEVEL"); env != "" {
		return parseLogLevel(env)
	}
	return parseLogLevel(cfg.Logger.Level)
}

func parseLogLevel(levelStr string) hclog.Level {
	switch strings.ToUpper(levelStr) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
