package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCategoryLoggersTagRecords(t *testing.T) {
	var buf bytes.Buffer
	prev := GlobalLogger
	Install(NewWithWriter(&buf, slog.LevelDebug))
	t.Cleanup(func() { Install(prev) })

	DiscordLogger().Info("edited message", "messageID", "m1")
	DatabaseLogger().Debug("opened store")

	out := buf.String()
	if !strings.Contains(out, "category=discord") || !strings.Contains(out, "messageID=m1") {
		t.Fatalf("missing discord record: %q", out)
	}
	if !strings.Contains(out, "category=database") {
		t.Fatalf("missing database record: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	prev := GlobalLogger
	Install(NewWithWriter(&buf, slog.LevelWarn))
	t.Cleanup(func() { Install(prev) })

	ApplicationLogger().Info("hidden")
	ErrorLoggerRaw().Error("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "category=error") {
		t.Fatalf("expected error record: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNilLoggerSync(t *testing.T) {
	var l *Logger
	if err := l.Sync(); err != nil {
		t.Fatalf("nil Sync should be a no-op, got %v", err)
	}
	if l.For(Database) == nil {
		t.Fatalf("nil logger should fall back to stderr logger")
	}
}
