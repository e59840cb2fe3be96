package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"logistics-console/internal/config"
	"logistics-console/internal/logx"
)

// logOutput is stderr so that command output on stdout stays clean.
var logOutput io.Writer = os.Stderr

// NewLogger builds the logger selected by cfg.
func NewLogger(cfg config.Log) (logx.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return logx.NewSlogAdapter(slog.New(slog.NewJSONHandler(logOutput, opts))), nil
	case "text", "":
		return logx.NewSlogAdapter(slog.New(slog.NewTextHandler(logOutput, opts))), nil
	case "zap":
		zl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zl)
		zcfg.OutputPaths = []string{"stderr"}
		l, err := zcfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build zap logger: %w", err)
		}
		return logx.NewZapAdapter(l), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
