package observability

import (
	"strings"

	"github.com/mkadic/cashbook/internal/config"
)

// Config holds observability settings derived from app configuration.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "cashbook"
	}

	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := cfg.LogFormat
	if logFormat == "" {
		logFormat = "json"
	}

	return Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
	}
}

func (c Config) Debug() bool {
	if strings.ToLower(strings.TrimSpace(c.LogLevel)) == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
