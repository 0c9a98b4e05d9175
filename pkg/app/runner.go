package app

import (
	"context"
	"fmt"
	"time"

	"github.com/small-frappuccino/discordpager/pkg/control"
	"github.com/small-frappuccino/discordpager/pkg/discord/commands/core"
	"github.com/small-frappuccino/discordpager/pkg/discord/commands/pages"
	"github.com/small-frappuccino/discordpager/pkg/discord/session"
	"github.com/small-frappuccino/discordpager/pkg/log"
	"github.com/small-frappuccino/discordpager/pkg/storage"
	"github.com/small-frappuccino/discordpager/pkg/theme"
	"github.com/small-frappuccino/discordpager/pkg/util"
)

// Run bootstraps the bot and blocks until shutdown.
// appName affects config/cache/log paths; tokenEnv is the environment variable containing the bot token.
// The token is read from the process environment first; if empty, $HOME/.local/bin/.env is loaded
// and the variable re-checked.
func Run(appName, tokenEnv string) error {
	started := time.Now()

	// App name first (affects paths)
	util.SetAppName(appName)

	token, loadErr := util.LoadEnvWithLocalBinFallback(tokenEnv)

	// Logger first so subsequent steps can log meaningfully
	if err := log.SetupLogger(); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer log.GlobalLogger.Sync()

	if loadErr != nil {
		log.ApplicationLogger().Warn(fmt.Sprintf("Warning: %v", loadErr))
	}

	if name := util.EnvString("PAGER_THEME", ""); name != "" {
		if err := theme.SetCurrent(name); err != nil {
			log.ApplicationLogger().Warn(fmt.Sprintf("Failed to set theme from PAGER_THEME: %v", err))
		} else {
			log.ApplicationLogger().Info("🌈 Theme applied", "theme", name)
		}
	}

	log.ApplicationLogger().Info(formatStartupMessage(appName, AppVersion(), Version))

	if token == "" {
		return fmt.Errorf("%s not set in environment or .env file", tokenEnv)
	}

	// Deck store
	driver := util.EnvString("PAGER_STORE_DRIVER", storage.DriverSQLite)
	storePath := util.EnvString("PAGER_STORE_PATH", util.GetDeckDBPath(driver))
	store, err := storage.Open(driver, storePath)
	if err != nil {
		return fmt.Errorf("open deck store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.DatabaseLogger().Warn("Failed to close deck store", "err", err)
		}
	}()
	log.DatabaseLogger().Info("📚 Deck store ready", "driver", driver, "path", storePath)

	// Discord session
	log.DiscordLogger().Info("🔑 Attempting to authenticate with Discord API...")
	discordSession, err := session.NewDiscordSession(token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	defer discordSession.Close()
	if discordSession.State == nil || discordSession.State.User == nil {
		return fmt.Errorf("discord session state not properly initialized")
	}
	log.DiscordLogger().Info(fmt.Sprintf("✅ Authenticated as %s", discordSession.State.User.Username))

	// Sessions started by commands end when ctx is cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pagesCommands := pages.NewPagesCommands(ctx, store, pages.OptionsFromEnv())

	commandManager := core.NewCommandManager(discordSession)
	pagesCommands.RegisterCommands(commandManager.GetRouter())
	if err := commandManager.SetupCommands(); err != nil {
		return fmt.Errorf("configure slash commands: %w", err)
	}
	log.ApplicationLogger().Info("🔗 Slash commands sync completed")

	removeMessageHandler := discordSession.AddHandler(pagesCommands.HandleMessage)

	// No new command may reach pagesCommands once this has run.
	var handlersRemoved bool
	removeHandlers := func() {
		if handlersRemoved {
			return
		}
		handlersRemoved = true
		removeMessageHandler()
		commandManager.Shutdown()
	}
	defer removeHandlers()

	// Control API (optional)
	server := control.NewServer(util.EnvString("PAGER_CONTROL_ADDR", ""), store)
	if server != nil {
		if err := server.Start(); err != nil {
			return fmt.Errorf("start control server: %w", err)
		}
	}

	log.ApplicationLogger().Info(fmt.Sprintf("🎯 %s initialized successfully in %s", appName, time.Since(started).Round(time.Millisecond)))
	log.ApplicationLogger().Info(fmt.Sprintf("🤖 %s running. Press Ctrl+C to stop...", appName))

	util.WaitForInterrupt()
	log.ApplicationLogger().Info(fmt.Sprintf("🛑 Stopping %s...", appName))

	shutdownCtx, shutdownCancel := context.WithTimeoutCause(context.Background(), 30*time.Second, fmt.Errorf("application shutdown"))
	defer shutdownCancel()

	if server != nil {
		if err := server.Stop(shutdownCtx); err != nil {
			log.ErrorLoggerRaw().Error(fmt.Sprintf("Control server did not stop cleanly: %v", err))
		}
	}

	// Running sessions render their final state before the gateway closes.
	removeHandlers()
	cancel()
	if err := pagesCommands.Shutdown(shutdownCtx); err != nil {
		log.ErrorLoggerRaw().Error(fmt.Sprintf("Pagination sessions did not finish: %v", err))
	}

	return nil
}
