package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLogger_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(WithOutput(buf), WithLevel(WarnLevel))

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "error", lines[1]["level"])

	l.SetLevel(DebugLevel)
	l.Debug("debug message")
	assert.Len(t, decodeLines(t, buf), 3)
}

func TestLogger_Fields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(WithOutput(buf)).WithField("component", "sqlsession")

	l.Info("reaped", Int64("rows", 3), String("table", "Session"), FieldError(errors.New("boom")))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "sqlsession", lines[0]["component"])
	assert.Equal(t, float64(3), lines[0]["rows"])
	assert.Equal(t, "Session", lines[0]["table"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, "reaped", lines[0]["message"])
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want LogLevel
	}{
		{in: "debug", want: DebugLevel},
		{in: " WARNING ", want: WarnLevel},
		{in: "error", want: ErrorLevel},
		{in: "fatal", want: FatalLevel},
		{in: "unknown", want: InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestWithRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	cfg := defaultConfig()
	WithRotatingFile(path, 0, -1, 7)(cfg)

	lj, ok := cfg.Output.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, lj.Filename)
	assert.Equal(t, 100, lj.MaxSize)
	assert.Equal(t, 0, lj.MaxBackups)
	assert.Equal(t, 7, lj.MaxAge)
}
