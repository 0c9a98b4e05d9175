package perf

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/small-frappuccino/discordpager/pkg/log"
	"github.com/small-frappuccino/discordpager/pkg/util"
)

const (
	envHandlerThresholdMs     = "PAGER_HANDLER_PERF_THRESHOLD_MS"
	defaultHandlerThresholdMs = int64(200)
)

var (
	thresholdOnce sync.Once
	threshold     time.Duration
)

func handlerThreshold() time.Duration {
	thresholdOnce.Do(func() {
		threshold = thresholdFrom(util.EnvInt64(envHandlerThresholdMs, defaultHandlerThresholdMs))
	})
	return threshold
}

func thresholdFrom(ms int64) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// StartGatewayEvent tracks how long a gateway handler takes and logs only when slow.
// Set PAGER_HANDLER_PERF_THRESHOLD_MS to 0 to disable.
func StartGatewayEvent(event string, attrs ...slog.Attr) func() {
	return startWith(handlerThreshold(), log.DiscordLogger(), event, attrs...)
}

func startWith(limit time.Duration, logger *slog.Logger, event string, attrs ...slog.Attr) func() {
	if limit <= 0 {
		return func() {}
	}

	start := time.Now()
	return func() {
		duration := time.Since(start)
		if duration < limit {
			return
		}
		name := strings.TrimSpace(event)
		if name == "" {
			name = "unknown"
		}
		args := make([]any, 0, len(attrs)+3)
		args = append(args,
			slog.String("event", name),
			slog.Duration("duration", duration),
			slog.Int64("duration_ms", duration.Milliseconds()),
		)
		for _, attr := range attrs {
			args = append(args, attr)
		}
		logger.Warn("slow gateway event handler", args...)
	}
}
