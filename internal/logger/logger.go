// Package logger builds the zap logger shared by the server and the CLI.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a logger at level ("debug", "info", "warn", "error";
// anything else means info). format "console" writes human-readable lines
// to stderr, anything else JSON to stdout. Every entry carries the service
// name and the host.
func NewLogger(level, format, serviceName string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	fields := []zap.Field{zap.String("service_name", serviceName)}
	if host, err := os.Hostname(); err == nil && host != "" {
		fields = append(fields, zap.String("hostname", host))
	}
	return cfg.Build(zap.Fields(fields...))
}
