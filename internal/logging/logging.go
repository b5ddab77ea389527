// Package logging builds the zap logger used across the server.
package logging

import (
	"fmt"

	"github.com/samber/oops"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"todo-tracker/backend/internal/config"
)

// New returns a JSON production logger or a console development logger.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	switch cfg.Format {
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// Error logs err at error level. Errors built with oops contribute their
// code and context as fields.
func Error(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	logger.Error(msg, append(fields, ErrorFields(err)...)...)
}

// ErrorFields returns the zap fields describing err.
func ErrorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	if oopsErr, ok := oops.AsOops(err); ok {
		fields = append(fields, zap.Any("error_code", oopsErr.Code()))
		for k, v := range oopsErr.Context() {
			fields = append(fields, zap.Any(k, v))
		}
	}
	return fields
}
