package core

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/errutil"
	"github.com/small-frappuccino/discordpager/pkg/theme"
)

// ResponseType picks the prefix and colour of a response.
type ResponseType int

const (
	ResponseSuccess ResponseType = iota
	ResponseError
	ResponseWarning
	ResponseInfo
)

// Responder sends interaction responses in the bot's house style.
type Responder struct {
	session *discordgo.Session
}

func NewResponder(session *discordgo.Session) *Responder {
	return &Responder{session: session}
}

// Success sends a public success message.
func (r *Responder) Success(i *discordgo.InteractionCreate, message string) error {
	return r.Respond(i, message, ResponseSuccess, false)
}

// Error sends an ephemeral error message.
func (r *Responder) Error(i *discordgo.InteractionCreate, message string) error {
	return r.Respond(i, message, ResponseError, true)
}

// Ephemeral sends an ephemeral informational message.
func (r *Responder) Ephemeral(i *discordgo.InteractionCreate, message string) error {
	return r.Respond(i, message, ResponseInfo, true)
}

// Respond sends a text response prefixed for its type.
func (r *Responder) Respond(i *discordgo.InteractionCreate, message string, responseType ResponseType, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	return errutil.HandleDiscordError("interaction_respond", func() error {
		return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: formatTextMessage(message, responseType),
				Flags:   flags,
			},
		})
	})
}

// Embed sends a single embed.
func (r *Responder) Embed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	return errutil.HandleDiscordError("interaction_respond", func() error {
		return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
				Flags:  flags,
			},
		})
	})
}

// Autocomplete answers an autocomplete request with at most 25 choices.
func (r *Responder) Autocomplete(i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if len(choices) > 25 {
		choices = choices[:25]
	}

	return errutil.HandleDiscordError("interaction_autocomplete", func() error {
		return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionApplicationCommandAutocompleteResult,
			Data: &discordgo.InteractionResponseData{Choices: choices},
		})
	})
}

func formatTextMessage(message string, responseType ResponseType) string {
	switch responseType {
	case ResponseSuccess:
		return "✅ " + message
	case ResponseError:
		return "❌ " + message
	case ResponseWarning:
		return "⚠️ " + message
	case ResponseInfo:
		return "ℹ️ " + message
	default:
		return message
	}
}

// EmbedBuilder builds embeds in the current theme's colours.
type EmbedBuilder struct{}

func (EmbedBuilder) Success(title, description string) *discordgo.MessageEmbed {
	return themedEmbed(title, description, theme.Success())
}

func (EmbedBuilder) Error(title, description string) *discordgo.MessageEmbed {
	return themedEmbed(title, description, theme.Error())
}

func (EmbedBuilder) Info(title, description string) *discordgo.MessageEmbed {
	return themedEmbed(title, description, theme.Info())
}

func (EmbedBuilder) Warning(title, description string) *discordgo.MessageEmbed {
	return themedEmbed(title, description, theme.Warning())
}

func themedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
