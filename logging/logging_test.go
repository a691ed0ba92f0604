package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr, false)

	logger.Debug("hidden")
	logger.Info("analysis started", Fields{"frames": 12})
	logger.Warn("clip is short")
	logger.Error(errors.New("boom"), "decode failed")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "[INFO] analysis started frames=12")
	assert.Contains(t, stderr.String(), "[WARN] clip is short")
	assert.Contains(t, stderr.String(), "[ERROR] decode failed: boom")

	logger.SetLevel(DebugLevel)
	logger.Debug("visible")
	assert.Contains(t, stdout.String(), "[DEBUG] visible")
}

func TestDefaultLoggerFieldsAndContext(t *testing.T) {
	var stdout bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stdout, false)

	child := logger.WithFields(Fields{"component": "pitch"})
	ctx := ContextWithFields(context.Background(), Fields{"clip": "a.wav"})
	child.WithContext(ctx).Info("done", Fields{"voiced": 3})

	assert.Contains(t, stdout.String(), "[INFO] done clip=a.wav component=pitch voiced=3")

	// children share the parent's level
	logger.SetLevel(ErrorLevel)
	child.Info("suppressed")
	assert.NotContains(t, stdout.String(), "suppressed")
}

func TestDefaultLoggerFatalExits(t *testing.T) {
	var stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stderr, &stderr, false)
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal(errors.New("bad"), "giving up")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[FATAL] giving up: bad")
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"debug": DebugLevel, "INFO": InfoLevel, "warning": WarnLevel,
		"error": ErrorLevel, "": InfoLevel,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLogrusAdapter(t *testing.T) {
	var out bytes.Buffer
	base := logrus.New()
	base.SetOutput(&out)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	logger := NewLogrusLogger(base)
	logger.SetLevel(DebugLevel)
	assert.Equal(t, logrus.DebugLevel, base.GetLevel())

	logger.WithFields(Fields{"component": "voicemap"}).Debug("mapped", Fields{"voice": "af_bella"})
	assert.Contains(t, out.String(), "level=debug")
	assert.Contains(t, out.String(), `msg=mapped`)
	assert.Contains(t, out.String(), "component=voicemap")
	assert.Contains(t, out.String(), "voice=af_bella")

	out.Reset()
	logger.Error(errors.New("boom"), "failed")
	assert.Contains(t, out.String(), "error=boom")
}

func TestGlobalLogger(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())
	assert.Same(t, GetGlobalLogger(), OrGlobal(nil))

	var out bytes.Buffer
	custom := NewDefaultLoggerWithWriters(&out, &out, false)
	assert.Same(t, custom, OrGlobal(custom))
}
