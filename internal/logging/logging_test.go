package logging

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"todo-tracker/backend/internal/config"
)

func TestNew(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = New(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestError_IncludesOopsContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	err := oops.Code("TASK_UPDATE_FAILED").With("task_id", "t-1").Wrap(errors.New("disk full"))
	Error(logger, "update failed", err, zap.String("path", "/todos/t-1"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/todos/t-1", fields["path"])
	assert.Equal(t, "TASK_UPDATE_FAILED", fields["error_code"])
	assert.Equal(t, "t-1", fields["task_id"])
}

func TestError_PlainError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Error(zap.New(core), "boom", errors.New("plain"))

	require.Equal(t, 1, logs.Len())
	_, hasCode := logs.All()[0].ContextMap()["error_code"]
	assert.False(t, hasCode)
}
