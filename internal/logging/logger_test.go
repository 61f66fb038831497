package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf).With("csv")

	l.Debugf("hidden %d", 1)
	l.Infof("loaded %d rows", 150)
	l.Errorf("boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] [csv] loaded 150 rows")
	assert.Contains(t, out, "[ERROR] [csv] boom")
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Infof("nothing")
		_ = l.With("x")
	})
	assert.Equal(t, LevelError, l.Level())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, " WARN ": LevelWarn, "warning": LevelWarn, "trace": LevelTrace}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseLevel("loud")
	assert.False(t, ok)
}
