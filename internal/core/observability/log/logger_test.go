package log

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerFieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(core), LevelInfo)

	l.Debug("hidden")
	l.With(String("session", "s1")).Info("placed",
		Vec3("position", mgl64.Vec3{1, 2, 3}),
		Int("chain", 4),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "placed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "s1", ctx["session"])
	assert.Equal(t, int64(4), ctx["chain"])
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, ctx["position"])
	assert.Equal(t, "boom", ctx["error"])

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("visible")
	assert.Equal(t, 2, logs.Len())
}
