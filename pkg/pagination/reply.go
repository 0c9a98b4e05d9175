package pagination

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/errutil"
)

// Message is one render of the paginated message.
type Message struct {
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
}

// ReplyContext is where a pagination session is displayed. It hides whether
// the session was started from a message or from an interaction.
type ReplyContext interface {
	// Requester is the only user allowed to navigate.
	Requester() *discordgo.User
	InitialSend(ctx context.Context, msg *Message) error
	Edit(ctx context.Context, msg *Message) error
	// FetchHandle returns the message carrying the controls.
	FetchHandle(ctx context.Context) (*discordgo.Message, error)
}

// MessageReply paginates in a reply to a channel message.
type MessageReply struct {
	session *discordgo.Session
	source  *discordgo.Message
	sent    *discordgo.Message
}

// NewMessageReply returns a ReplyContext replying to source.
func NewMessageReply(session *discordgo.Session, source *discordgo.Message) *MessageReply {
	return &MessageReply{session: session, source: source}
}

func (r *MessageReply) Requester() *discordgo.User {
	return r.source.Author
}

// InitialSend replies to the source message without pinging its author.
// Ephemeral has no meaning for channel messages and is ignored.
func (r *MessageReply) InitialSend(ctx context.Context, msg *Message) error {
	return errutil.HandleDiscordError("send_message", func() error {
		sent, err := r.session.ChannelMessageSendComplex(r.source.ChannelID, &discordgo.MessageSend{
			Embeds:          msg.Embeds,
			Components:      msg.Components,
			Reference:       r.source.Reference(),
			AllowedMentions: &discordgo.MessageAllowedMentions{RepliedUser: false},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return err
		}
		r.sent = sent
		return nil
	})
}

func (r *MessageReply) Edit(ctx context.Context, msg *Message) error {
	if r.sent == nil {
		return fmt.Errorf("message reply not sent")
	}
	return errutil.HandleDiscordError("edit_message", func() error {
		_, err := r.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         r.sent.ID,
			Channel:    r.sent.ChannelID,
			Embeds:     &msg.Embeds,
			Components: &msg.Components,
		}, discordgo.WithContext(ctx))
		return err
	})
}

func (r *MessageReply) FetchHandle(context.Context) (*discordgo.Message, error) {
	if r.sent == nil {
		return nil, fmt.Errorf("message reply not sent")
	}
	return r.sent, nil
}

// InteractionReply paginates in the response to an application command.
type InteractionReply struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	responded   bool
}

// NewInteractionReply returns a ReplyContext for i. Pass responded=true when
// the interaction was already deferred or answered; the first render then
// edits the original response instead of creating it.
func NewInteractionReply(session *discordgo.Session, i *discordgo.Interaction, responded bool) *InteractionReply {
	return &InteractionReply{session: session, interaction: i, responded: responded}
}

func (r *InteractionReply) Requester() *discordgo.User {
	if r.interaction.Member != nil && r.interaction.Member.User != nil {
		return r.interaction.Member.User
	}
	return r.interaction.User
}

func (r *InteractionReply) InitialSend(ctx context.Context, msg *Message) error {
	if r.responded {
		return r.Edit(ctx, msg)
	}

	var flags discordgo.MessageFlags
	if msg.Ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := errutil.HandleDiscordError("interaction_respond", func() error {
		return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds:     msg.Embeds,
				Components: msg.Components,
				Flags:      flags,
			},
		}, discordgo.WithContext(ctx))
	})
	if err != nil {
		return err
	}
	r.responded = true
	return nil
}

func (r *InteractionReply) Edit(ctx context.Context, msg *Message) error {
	return errutil.HandleDiscordError("interaction_edit", func() error {
		_, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
			Embeds:          &msg.Embeds,
			Components:      &msg.Components,
			AllowedMentions: &discordgo.MessageAllowedMentions{RepliedUser: false},
		}, discordgo.WithContext(ctx))
		return err
	})
}

func (r *InteractionReply) FetchHandle(ctx context.Context) (*discordgo.Message, error) {
	var msg *discordgo.Message
	err := errutil.HandleDiscordError("interaction_fetch", func() error {
		var err error
		msg, err = r.session.InteractionResponse(r.interaction, discordgo.WithContext(ctx))
		return err
	})
	return msg, err
}
