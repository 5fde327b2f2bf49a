package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, opts Options) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), opts)
	t.Cleanup(func() { Use(zap.NewNop(), Options{}) })
	return logs
}

func TestCategoryLoggerIsNamed(t *testing.T) {
	logs := observe(t, Options{})

	Get(CategoryAnnotate).Info("resolved %d symbols", 3)
	AnnotateDebug("scope has %s", "x")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "annotate", entries[0].LoggerName)
	assert.Equal(t, "resolved 3 symbols", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestDisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, Options{Categories: map[string]bool{"watch": false, "check": true}})

	assert.False(t, IsCategoryEnabled(CategoryWatch))
	assert.True(t, IsCategoryEnabled(CategoryCheck))
	assert.True(t, IsCategoryEnabled(CategoryLoad), "unlisted categories are enabled")

	Watch("change on %s", "a.yaml")
	Check("checked %d blocks", 2)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 1, logs.FilterLoggerName("check").Len())
}

func TestGetCachesLoggers(t *testing.T) {
	observe(t, Options{})
	assert.Same(t, Get(CategoryReport), Get(CategoryReport))
}

func TestWithAddsFields(t *testing.T) {
	logs := observe(t, Options{})
	Get(CategoryLoad).With("file", "theory.yaml").Warn("empty block")

	entries := logs.FilterField(zap.String("file", "theory.yaml")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "empty block", entries[0].Message)
}

func TestTimerThreshold(t *testing.T) {
	logs := observe(t, Options{})
	timer := StartTimer(CategoryCheck, "check")
	timer.start = time.Now().Add(-time.Second)
	timer.StopWithThreshold(time.Millisecond)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestInitializeRejectsBadLevel(t *testing.T) {
	_, err := Initialize(Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
