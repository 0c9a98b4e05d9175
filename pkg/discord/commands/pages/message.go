package pages

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/discord/perf"
	"github.com/small-frappuccino/discordpager/pkg/errutil"
	"github.com/small-frappuccino/discordpager/pkg/pagination"
	"github.com/small-frappuccino/discordpager/pkg/storage"
)

// MessagePrefix starts the message form of the command: "!pages <name>".
const MessagePrefix = "!pages"

// parseMessageCommand returns the deck name and whether content is a !pages command.
func parseMessageCommand(content string) (string, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, MessagePrefix) {
		return "", false
	}
	rest := content[len(MessagePrefix):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// HandleMessage is the MessageCreate handler for !pages.
func (pc *PagesCommands) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	name, ok := parseMessageCommand(m.Content)
	if !ok {
		return
	}
	done := perf.StartGatewayEvent("message_create", slog.String("command", MessagePrefix))
	defer done()
	logger := pc.logger.With("guildID", m.GuildID, "userID", m.Author.ID, "channelID", m.ChannelID)

	if name == "" {
		pc.replyText(s, m.Message, fmt.Sprintf("Usage: `%s <deck>`", MessagePrefix))
		return
	}

	deck, err := storage.Lookup(pc.store, m.GuildID, name)
	if err != nil {
		logger.Error("Deck lookup failed", "deck", name, "error", err)
		pc.replyText(s, m.Message, "Something went wrong while loading that deck.")
		return
	}
	if deck == nil {
		pc.replyText(s, m.Message, fmt.Sprintf("Deck `%s` not found.", storage.NormalizeDeckName(name)))
		return
	}

	reply := pagination.NewMessageReply(s, m.Message)
	if err := pc.paginate(deck.Pages, pc.options, reply, pc.newHost(s), logger); err != nil {
		var ve *pagination.ValidationError
		switch {
		case errors.As(err, &ve):
			pc.replyText(s, m.Message, ve.Message)
			return
		case errors.Is(err, ErrShuttingDown):
			pc.replyText(s, m.Message, shuttingDownText)
			return
		}
		logger.Error("Failed to start pagination", "error", err)
		return
	}
	logger.Info("Showing deck", "deck", deck.Name, "scope", deck.GuildID, "pages", len(deck.Pages))
}

func (pc *PagesCommands) replyText(s *discordgo.Session, source *discordgo.Message, content string) {
	_ = errutil.HandleDiscordError("reply_message", func() error {
		_, err := s.ChannelMessageSendComplex(source.ChannelID, &discordgo.MessageSend{
			Content:         content,
			Reference:       source.Reference(),
			AllowedMentions: &discordgo.MessageAllowedMentions{RepliedUser: false},
		})
		return err
	})
}
