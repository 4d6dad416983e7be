// Package logging builds the application's structured logger
package logging

import (
	"fmt"
	"os"

	"github.com/amirphl/meal-campaign-stats/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a configured level name to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	if format == "console" {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

// newFileSink returns a size and age rotated log file
func newFileSink(cfg config.LoggingConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  false,
	}
}

// NewLogger creates a zap logger writing to stdout, a rotated file, or both depending on cfg.Output
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	encoder := newEncoder(cfg.Format)

	var cores []zapcore.Core
	switch cfg.Output {
	case "", "stdout":
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	case "file":
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(newFileSink(cfg)), level))
	case "both":
		cores = append(cores,
			zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
			zapcore.NewCore(encoder.Clone(), zapcore.AddSync(newFileSink(cfg)), level),
		)
	default:
		return nil, fmt.Errorf("unsupported log output %q", cfg.Output)
	}

	opts := []zap.Option{}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}
