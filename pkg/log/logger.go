package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/small-frappuccino/discordpager/pkg/util"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category groups log records by the subsystem that produced them.
type Category string

const (
	Application   Category = "application"
	DiscordEvents Category = "discord"
	Database      Category = "database"
	Errors        Category = "error"
)

// Logger owns the rotating file and the per-category slog loggers.
type Logger struct {
	file       *lumberjack.Logger
	categories map[Category]*slog.Logger
}

var (
	// GlobalLogger is set by SetupLogger. Category accessors fall back to a
	// stderr logger while it is nil.
	GlobalLogger *Logger

	setupMu  sync.Mutex
	fallback = newLogger(os.Stderr, nil, slog.LevelInfo)
)

// SetupLogger initializes the global logger: text records go to stderr and to
// a size-rotated file at util.GetLogFilePath(). It is idempotent.
func SetupLogger() error {
	setupMu.Lock()
	defer setupMu.Unlock()
	if GlobalLogger != nil {
		return nil
	}

	path := util.GetLogFilePath()
	if err := util.EnsureDir(path); err != nil {
		return err
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	GlobalLogger = newLogger(io.MultiWriter(os.Stderr, file), file, parseLevel(util.EnvString("PAGER_LOG_LEVEL", "info")))
	slog.SetDefault(GlobalLogger.categories[Application])
	return nil
}

// NewWithWriter builds a Logger that writes to w only. Used by tests and by
// hosts embedding the paginator with their own sink.
func NewWithWriter(w io.Writer, level slog.Level) *Logger {
	return newLogger(w, nil, level)
}

// Install replaces the global logger.
func Install(l *Logger) {
	setupMu.Lock()
	GlobalLogger = l
	setupMu.Unlock()
}

func newLogger(w io.Writer, file *lumberjack.Logger, level slog.Level) *Logger {
	base := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	l := &Logger{file: file, categories: make(map[Category]*slog.Logger, 4)}
	for _, c := range []Category{Application, DiscordEvents, Database, Errors} {
		l.categories[c] = base.With("category", string(c))
	}
	return l
}

// Sync closes the rotating file. Safe on a nil receiver.
func (l *Logger) Sync() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// For returns the logger of a category.
func (l *Logger) For(c Category) *slog.Logger {
	if l == nil {
		return fallback.categories[Application]
	}
	if lg, ok := l.categories[c]; ok {
		return lg
	}
	return l.categories[Application]
}

func current() *Logger {
	setupMu.Lock()
	defer setupMu.Unlock()
	if GlobalLogger != nil {
		return GlobalLogger
	}
	return fallback
}

func ApplicationLogger() *slog.Logger { return current().For(Application) }
func DiscordLogger() *slog.Logger     { return current().For(DiscordEvents) }
func DatabaseLogger() *slog.Logger    { return current().For(Database) }

// ErrorLoggerRaw returns the logger for failures that are not tied to a subsystem.
func ErrorLoggerRaw() *slog.Logger { return current().For(Errors) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
