package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvWithLocalBinFallbackUsesHomeFile(t *testing.T) {
	tmp := t.TempDir()
	fakeHome := filepath.Join(tmp, "home")
	if err := os.MkdirAll(filepath.Join(fakeHome, ".local", "bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	envPath := filepath.Join(fakeHome, ".local", "bin", ".env")
	if err := os.WriteFile(envPath, []byte("PAGER_TEST_TOKEN=fromfile"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	t.Setenv("HOME", fakeHome)
	t.Setenv("PAGER_TEST_TOKEN", "")
	_ = os.Unsetenv("PAGER_TEST_TOKEN")

	got, err := LoadEnvWithLocalBinFallback("PAGER_TEST_TOKEN")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got != "fromfile" {
		t.Fatalf("expected value from file, got %q", got)
	}

	t.Setenv("PAGER_TEST_TOKEN", "envwins")
	got, err = LoadEnvWithLocalBinFallback("PAGER_TEST_TOKEN")
	if err != nil || got != "envwins" {
		t.Fatalf("expected existing env to win, got %q err=%v", got, err)
	}
}

func TestLoadEnvWithLocalBinFallbackMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAGER_MISSING_TOKEN", "")

	if _, err := LoadEnvWithLocalBinFallback("PAGER_MISSING_TOKEN"); err == nil {
		t.Fatalf("expected error for unset variable")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("BOOL_TRUE", "YeS")
	t.Setenv("BOOL_FALSE", "0")
	if !EnvBool("BOOL_TRUE") {
		t.Fatalf("expected truthy value")
	}
	if EnvBool("BOOL_FALSE") {
		t.Fatalf("expected falsy value")
	}

	t.Setenv("STR_EMPTY", "  ")
	if got := EnvString("STR_EMPTY", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("INT_OK", "42")
	t.Setenv("INT_BAD", "oops")
	if got := EnvInt64("INT_OK", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := EnvInt64("INT_BAD", 7); got != 7 {
		t.Fatalf("expected fallback, got %d", got)
	}
}

func TestEnvBoolPtr(t *testing.T) {
	t.Setenv("PTR_UNSET", "")
	if got := EnvBoolPtr("PTR_UNSET"); got != nil {
		t.Fatalf("expected nil for blank variable, got %v", *got)
	}
	t.Setenv("PTR_OFF", "off")
	if got := EnvBoolPtr("PTR_OFF"); got == nil || *got {
		t.Fatalf("expected pointer to false, got %v", got)
	}
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{value: "", want: time.Minute},
		{value: "90s", want: 90 * time.Second},
		{value: "1500", want: 1500 * time.Millisecond},
		{value: "nope", want: time.Minute},
		{value: "-5s", want: time.Minute},
		{value: "0", want: time.Minute},
	}
	for _, tt := range tests {
		t.Setenv("DUR", tt.value)
		if got := EnvDuration("DUR", time.Minute); got != tt.want {
			t.Fatalf("EnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
