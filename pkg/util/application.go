package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ConfiguredAppName is set by the host before anything touches the filesystem.
	ConfiguredAppName string

	// Paths are recalculated when SetAppName is called.
	ApplicationSupportPath string
	ApplicationCachesPath  string
)

// Version is the current version of discordpager.
const Version = "v0.4.0"

func init() {
	ApplicationSupportPath = GetApplicationSupportPath()
	ApplicationCachesPath = GetApplicationCachesPath()
}

// SetAppName sets a configured application name and recomputes base paths.
func SetAppName(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	ConfiguredAppName = sanitizeName(name)

	ApplicationSupportPath = GetApplicationSupportPath()
	ApplicationCachesPath = GetApplicationCachesPath()
}

// EffectiveAppName returns the configured application name or the default.
func EffectiveAppName() string {
	if n := strings.TrimSpace(ConfiguredAppName); n != "" {
		return n
	}
	return "discordpager"
}

// GetApplicationSupportPath returns <UserConfigDir>/<AppName>, or ./config/<AppName>
// when the platform does not expose a config directory.
func GetApplicationSupportPath() string {
	app := EffectiveAppName()
	if dir, err := os.UserConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, app)
	}
	return filepath.Join(".", "config", app)
}

// GetApplicationCachesPath returns <UserCacheDir>/<AppName>, or ./cache/<AppName>.
func GetApplicationCachesPath() string {
	app := EffectiveAppName()
	if dir, err := os.UserCacheDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, app)
	}
	return filepath.Join(".", "cache", app)
}

// GetDeckDBPath returns the default deck database path for the given driver.
// Layout: <CachesBase>/decks/decks.<ext>
func GetDeckDBPath(driver string) string {
	ext := "db"
	if driver == "bolt" {
		ext = "bolt"
	}
	return filepath.Join(ApplicationCachesPath, "decks", "decks."+ext)
}

// GetLogFilePath returns the main log file path. PAGER_LOG_DIR overrides the directory.
func GetLogFilePath() string {
	if dir := EnvString("PAGER_LOG_DIR", ""); dir != "" {
		return filepath.Join(dir, "discordpager.log")
	}
	return filepath.Join(ApplicationCachesPath, "logs", "discordpager.log")
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func sanitizeName(s string) string {
	out := strings.TrimSpace(s)
	out = strings.ReplaceAll(out, "/", "-")
	out = strings.ReplaceAll(out, "\\", "-")
	out = strings.ReplaceAll(out, "\x00", "")
	if out == "" {
		return "discordpager"
	}
	return out
}
