package errutil

import (
	"fmt"

	"github.com/small-frappuccino/discordpager/pkg/log"
)

// HandleDiscordError executes fn and logs any error as a Discord-related failure.
// It returns whatever error fn returns (unmodified), after logging it.
func HandleDiscordError(operation string, fn func() error) error {
	if fn == nil {
		return fmt.Errorf("nil function provided")
	}

	err := fn()
	if err == nil {
		return nil
	}

	log.DiscordLogger().Error("Discord operation failed", "operation", operation, "error", err)
	return err
}

// HandleStoreError executes fn and logs any error as a storage failure.
// It returns a wrapped error with context about the operation and key.
func HandleStoreError(operation, key string, fn func() error) error {
	if fn == nil {
		return fmt.Errorf("nil function provided")
	}

	err := fn()
	if err == nil {
		return nil
	}

	log.DatabaseLogger().Error("Store operation failed", "operation", operation, "key", key, "error", err)
	return fmt.Errorf("store %s %s: %w", operation, key, err)
}
