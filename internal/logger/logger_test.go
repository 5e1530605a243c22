package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	log.WithFields(map[string]any{"alias": "rootCA", "keystore": "/tmp/cacerts"}).Info("importing certificate")

	out := buf.String()
	require.Contains(t, out, `"alias":"rootCA"`)
	require.Contains(t, out, `"keystore":"/tmp/cacerts"`)
	require.Contains(t, out, "importing certificate")
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	require.NotPanics(t, func() {
		log.Info("noop")
		log.Error(nil, "noop")
		log.WithFields(map[string]any{"k": "v"}).Warn("noop")
	})
}
