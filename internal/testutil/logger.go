// Package testutil provides logging helpers shared by package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// LogCapture records the text-handler output of a logger so tests can
// assert on warnings the code under test emits.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCaptureLogger returns a debug-level logger and the capture it writes to.
func NewCaptureLogger() (*slog.Logger, *LogCapture) {
	c := &LogCapture{}
	return slog.New(slog.NewTextHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})), c
}

func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Lines returns the captured records containing every one of substrs.
func (c *LogCapture) Lines(substrs ...string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, line := range strings.Split(c.buf.String(), "\n") {
		if line == "" {
			continue
		}
		match := true
		for _, s := range substrs {
			if !strings.Contains(line, s) {
				match = false
				break
			}
		}
		if match {
			out = append(out, line)
		}
	}
	return out
}
