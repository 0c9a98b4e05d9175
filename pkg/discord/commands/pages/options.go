package pages

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/pagination"
	"github.com/small-frappuccino/discordpager/pkg/storage"
	"github.com/small-frappuccino/discordpager/pkg/theme"
	"github.com/small-frappuccino/discordpager/pkg/util"
)

// decksPerListPage is how many deck names one /pages list page shows.
const decksPerListPage = 10

// DefaultButtons are the five navigation buttons used by the bot.
func DefaultButtons() []pagination.ButtonSpec {
	return []pagination.ButtonSpec{
		{Emoji: &discordgo.ComponentEmoji{Name: "⏮️"}, Style: discordgo.SecondaryButton},
		{Emoji: &discordgo.ComponentEmoji{Name: "◀️"}, Style: discordgo.PrimaryButton},
		{Emoji: &discordgo.ComponentEmoji{Name: "⏹️"}, Style: discordgo.DangerButton},
		{Emoji: &discordgo.ComponentEmoji{Name: "▶️"}, Style: discordgo.PrimaryButton},
		{Emoji: &discordgo.ComponentEmoji{Name: "⏭️"}, Style: discordgo.SecondaryButton},
	}
}

// OptionsFromEnv builds the paginator options from PAGER_* variables.
//
//	PAGER_TIMEOUT          idle timeout ("90s", or milliseconds)
//	PAGER_RESET_TIMER      restart the timeout on each accepted click
//	PAGER_DISABLE_ON_END   keep disabled controls instead of clearing them
//	PAGER_SELECT_MENU      add the page select menu
//	PAGER_SECONDARY_TEXT   reply shown to users who did not start the session
func OptionsFromEnv() pagination.Options {
	return pagination.Options{
		Buttons: DefaultButtons(),
		SelectMenu: pagination.SelectMenuConfig{
			Enabled: util.EnvBool("PAGER_SELECT_MENU"),
		},
		Session: pagination.SessionConfig{
			Timeout:           util.EnvDuration("PAGER_TIMEOUT", pagination.DefaultTimeout),
			ResetTimer:        util.EnvBoolPtr("PAGER_RESET_TIMER"),
			DisableOnEnd:      util.EnvBoolPtr("PAGER_DISABLE_ON_END"),
			SecondaryUserText: util.EnvString("PAGER_SECONDARY_TEXT", ""),
		},
	}
}

// listPages renders deck summaries as embeds of decksPerListPage names each.
// Global decks shadowed by a guild deck of the same name are omitted.
func listPages(guildDecks, globalDecks []storage.DeckSummary) []*discordgo.MessageEmbed {
	seen := make(map[string]bool, len(guildDecks))
	lines := make([]string, 0, len(guildDecks)+len(globalDecks))
	for _, d := range guildDecks {
		seen[d.Name] = true
		lines = append(lines, fmt.Sprintf("`%s` · %d %s", d.Name, d.PageCount, plural(d.PageCount, "page")))
	}
	for _, d := range globalDecks {
		if seen[d.Name] {
			continue
		}
		lines = append(lines, fmt.Sprintf("`%s` · %d %s · global", d.Name, d.PageCount, plural(d.PageCount, "page")))
	}

	if len(lines) == 0 {
		return []*discordgo.MessageEmbed{{
			Title:       "Decks",
			Description: "No decks saved yet.",
			Color:       theme.DeckEmpty(),
		}}
	}

	var pages []*discordgo.MessageEmbed
	for start := 0; start < len(lines); start += decksPerListPage {
		end := min(start+decksPerListPage, len(lines))
		pages = append(pages, &discordgo.MessageEmbed{
			Title:       "Decks",
			Description: strings.Join(lines[start:end], "\n"),
			Color:       theme.DeckList(),
		})
	}
	return pages
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
