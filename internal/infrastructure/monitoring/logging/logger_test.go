package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", "text"} {
		l, err := NewLogger(LogConfig{Level: LevelDebug, Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_UnknownLevel(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "verbose"})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: LevelInfo, OutputPaths: []string{"/nonexistent-dir/x/y.log"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel, "INFO": zapcore.InfoLevel, "": zapcore.InfoLevel,
		"warning": zapcore.WarnLevel, "error": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)

	l.Info("search finished",
		String("query", "benzene"),
		Int("mappings", 12),
		Int64("raw", 12),
		Float64("energy", 518.5),
		Bool("cached", false),
		Duration("elapsed", 3*time.Millisecond),
		Strings("ranking", []string{"stereo", "energy"}),
		Err(errors.New("boom")),
		MoleculeID("m-1"),
		JobID("j-1"),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "search finished", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "benzene", ctx["query"])
	assert.Equal(t, int64(12), ctx["mappings"])
	assert.Equal(t, 518.5, ctx["energy"])
	assert.Equal(t, false, ctx["cached"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "m-1", ctx["molecule_id"])
	assert.Equal(t, "j-1", ctx["job_id"])
}

func TestZapLogger_LevelsFilter(t *testing.T) {
	l, logs := newObserved(zapcore.WarnLevel)
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	assert.Equal(t, 2, logs.Len())
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	child := l.Named("worker").With(String("topic", "screen"))
	child.Info("consumed")

	entry := logs.All()[0]
	assert.Equal(t, "worker", entry.LoggerName)
	assert.Equal(t, "screen", entry.ContextMap()["topic"])
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestSetLevel(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	require.NoError(t, SetLevel(l, LevelDebug))
	require.NoError(t, SetLevel(l.Named("child"), LevelWarn))
	assert.Error(t, SetLevel(l, "nope"))
	assert.Error(t, SetLevel(NewNopLogger(), LevelDebug))
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Equal(t, l, l.With(String("a", "b")))
	assert.Equal(t, l, l.Named("n"))
	assert.NoError(t, l.Sync())
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, _ := newObserved(zapcore.DebugLevel)
	SetDefault(l)
	assert.Equal(t, l, Default())
	SetDefault(nil)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
