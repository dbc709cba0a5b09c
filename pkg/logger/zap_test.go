package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.WithFields(String("component", "console")).Error("load failed",
		Int("count", 2),
		Duration("latency", time.Second),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	assert.Len(t, entries, 1)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "console", ctx["component"])
	assert.Equal(t, int64(2), ctx["count"])
	assert.Equal(t, time.Second, ctx["latency"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger("prod")
	assert.NoError(t, err)
	assert.NotNil(t, l)

	l, err = NewZapLogger("local")
	assert.NoError(t, err)
	assert.NotNil(t, l)
}
