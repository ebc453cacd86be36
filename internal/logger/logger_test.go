package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - (DEBUG|INFO|WARNING|ERROR) - `)

func TestLoggerLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Info("Dataset loaded successfully.")
	l.Warn("Input field issue with '%s': %s", "", "empty name")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, lineFormat, lines[0])
	assert.True(t, strings.HasSuffix(lines[0], " - INFO - Dataset loaded successfully."))
	assert.Contains(t, lines[1], " - WARNING - Input field issue with '': empty name")
}

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), " - ERROR - shown")
}

func TestLoggerException(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Exception(errors.New("boom"), "Prediction failed due to unexpected error.")

	out := buf.String()
	assert.Contains(t, out, " - ERROR - Prediction failed due to unexpected error.")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "goroutine")
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := Open(path, "info")
	require.NoError(t, err)
	l.Info("first")
	require.NoError(t, l.Close())

	l, err = Open(path, "info")
	require.NoError(t, err)
	l.Info("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- INFO - first")
	assert.Contains(t, string(data), "- INFO - second")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, NONE, ParseLevel("none"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
}

func TestNilAndDiscard(t *testing.T) {
	var l *Logger
	l.Info("no panic")
	l.Exception(errors.New("x"), "no panic")
	Discard().Error("dropped")
}
