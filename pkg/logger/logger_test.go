package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStandardLogger_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		call   func(l Logger)
		prefix string
		msg    string
	}{
		{"info", func(l Logger) { l.Info("run started: %d queued", 3) }, "[INFO]", "run started: 3 queued"},
		{"warning", func(l Logger) { l.Warning("transfer failed: %s", "timeout") }, "[WARNING]", "transfer failed: timeout"},
		{"error", func(l Logger) { l.Error("callback panicked: %v", "boom") }, "[ERROR]", "callback panicked: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.call(NewStandardLogger(log.New(buf, "", 0)))
			out := buf.String()
			if !strings.Contains(out, tt.prefix) {
				t.Errorf("expected %s prefix, got: %s", tt.prefix, out)
			}
			if !strings.Contains(out, tt.msg) {
				t.Errorf("expected message %q, got: %s", tt.msg, out)
			}
		})
	}
}

func TestLeveledLogger_DropsBelowMinimum(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLeveledLogger(log.New(buf, "", 0), LevelWarning)

	l.Info("hidden")
	l.Warning("shown")
	l.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be dropped, got: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "also shown") {
		t.Errorf("expected warning and error messages, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"info", LevelInfo, true},
		{"WARN", LevelWarning, true},
		{" warning ", LevelWarning, true},
		{"error", LevelError, true},
		{"debug", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("test")
	l.Warning("test")
	l.Error("test")
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	l := NewMockLogger()

	l.Info("info %d", 1)
	l.Warning("warn %s", "test")
	l.Error("err %v", "fail")
	_ = l.Close()

	if len(l.InfoCalls) != 1 || l.InfoCalls[0] != "info 1" {
		t.Errorf("unexpected info calls: %v", l.InfoCalls)
	}
	if w := l.Warnings(); len(w) != 1 || w[0] != "warn test" {
		t.Errorf("unexpected warning calls: %v", w)
	}
	if e := l.Errors(); len(e) != 1 || e[0] != "err fail" {
		t.Errorf("unexpected error calls: %v", e)
	}
	if !l.CloseCalled {
		t.Error("CloseCalled should be true after Close()")
	}
}
