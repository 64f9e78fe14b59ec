package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{"console default", false, 0, zapcore.WarnLevel},
		{"console verbose", false, 2, zapcore.DebugLevel},
		{"json info", true, 1, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				Logger = zap.NewNop().Sugar()
				JSONOutput = false
			})

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestInitializeThemeFromEnv(t *testing.T) {
	t.Cleanup(func() {
		SetTheme("everforest")
		Logger = zap.NewNop().Sugar()
	})
	t.Setenv("ENUMTAG_LOG_THEME", "gruvbox")

	require.NoError(t, Initialize(false, 0))
	assert.Equal(t, "gruvbox", Theme())
}

func TestCleanupNilSafe(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	Logger = nil
	assert.NotPanics(t, Cleanup)
	assert.NotPanics(t, func() { Infow("x") })
}

// newObservedLogger swaps the global logger for one that records entries.
func newObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	saved := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = saved })
	return logs
}

func TestLoggingFunctions(t *testing.T) {
	logs := newObservedLogger(t)

	Debugw("debug", FieldType, "Shape")
	Infow("info", FieldVariants, 3)
	Warnw("warn", FieldError, "boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "Shape", entries[0].ContextMap()[FieldType])
	assert.Equal(t, int64(3), entries[1].ContextMap()[FieldVariants])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()[FieldError])
}

func TestComponentLogger(t *testing.T) {
	logs := newObservedLogger(t)

	ChildLogger(ComponentLogger("derive"), FieldType, "Tree").Infow("done")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "derive", entries[0].LoggerName)
	assert.Equal(t, "Tree", entries[0].ContextMap()[FieldType])
}

type fakeStage string

func (s fakeStage) String() string { return string(s) }

func TestStageHelpers(t *testing.T) {
	logs := newObservedLogger(t)

	StageDebugw(fakeStage("extracting"), "loaded", FieldType, "Shape")
	StageInfow(fakeStage("binding"), "bound")
	StageWarnw(fakeStage("rejected"), "not a sum type")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "extracting", entries[0].ContextMap()[FieldStage])
	assert.Equal(t, "Shape", entries[0].ContextMap()[FieldType])
	assert.Equal(t, "binding", entries[1].ContextMap()[FieldStage])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func BenchmarkConsoleEncode(b *testing.B) {
	enc := newMinimalEncoder()
	ent := zapcore.Entry{Level: zapcore.InfoLevel, LoggerName: "derive", Message: "derived"}
	fields := []zapcore.Field{zap.String(FieldType, "Shape"), zap.Int(FieldVariants, 3)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf, _ := enc.EncodeEntry(ent, fields)
		buf.Free()
	}
}
