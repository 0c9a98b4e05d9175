package errutil

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/small-frappuccino/discordpager/pkg/log"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.GlobalLogger
	log.Install(log.NewWithWriter(&buf, slog.LevelDebug))
	t.Cleanup(func() { log.Install(prev) })
	return &buf
}

func TestHandleDiscordErrorReturnsOriginal(t *testing.T) {
	buf := captureLogs(t)
	boom := errors.New("boom")

	err := HandleDiscordError("edit_message", func() error { return boom })
	if err != boom {
		t.Fatalf("expected original error, got %v", err)
	}
	if !strings.Contains(buf.String(), "operation=edit_message") {
		t.Fatalf("expected operation in log output: %q", buf.String())
	}

	if err := HandleDiscordError("noop", func() error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := HandleDiscordError("nil", nil); err == nil {
		t.Fatalf("expected error for nil function")
	}
}

func TestHandleStoreErrorWraps(t *testing.T) {
	buf := captureLogs(t)
	boom := errors.New("disk full")

	err := HandleStoreError("save_deck", "guild/help", func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "store save_deck guild/help") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !strings.Contains(buf.String(), "category=database") {
		t.Fatalf("expected database category: %q", buf.String())
	}
}
