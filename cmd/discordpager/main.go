package main

import (
	"fmt"
	"os"

	"github.com/small-frappuccino/discordpager/pkg/app"
	"github.com/small-frappuccino/discordpager/pkg/log"
)

// main is the entry point of the Discord bot.
func main() {
	if err := app.Run("discordpager", "PAGER_BOT_TOKEN"); err != nil {
		log.ErrorLoggerRaw().Error(fmt.Sprintf("Fatal: %v", err))
		os.Exit(1)
	}
}
