package pagination

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Subscriber delivers component interactions for one message.
type Subscriber interface {
	// Subscribe returns the event stream and a cancel func. The stream is not
	// closed; callers stop reading after cancel.
	Subscribe(messageID string) (<-chan *discordgo.InteractionCreate, func())
}

// Responder answers component interactions.
type Responder interface {
	// Acknowledge defers the update so Discord does not report a failed interaction.
	Acknowledge(ctx context.Context, i *discordgo.Interaction) error
	ReplyEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error
}

// Host bundles the capabilities a session needs from the bot.
type Host interface {
	Subscriber
	Responder
}

type handlerAdder interface {
	AddHandler(handler interface{}) func()
}

const collectorBuffer = 16

// Collector subscribes to InteractionCreate through the session's handler list.
type Collector struct {
	session handlerAdder
}

// NewCollector returns a Collector for s. *discordgo.Session satisfies it.
func NewCollector(s handlerAdder) *Collector {
	return &Collector{session: s}
}

func (c *Collector) Subscribe(messageID string) (<-chan *discordgo.InteractionCreate, func()) {
	events := make(chan *discordgo.InteractionCreate, collectorBuffer)
	done := make(chan struct{})

	remove := c.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		if !isComponentFor(i, messageID) {
			return
		}
		select {
		case events <- i:
		case <-done:
		}
	})

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			remove()
			close(done)
		})
	}
	return events, cancel
}

func isComponentFor(i *discordgo.InteractionCreate, messageID string) bool {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionMessageComponent {
		return false
	}
	return i.Message != nil && i.Message.ID == messageID
}

// SessionResponder implements Responder with interaction callbacks.
type SessionResponder struct {
	session *discordgo.Session
}

func NewSessionResponder(s *discordgo.Session) *SessionResponder {
	return &SessionResponder{session: s}
}

func (r *SessionResponder) Acknowledge(ctx context.Context, i *discordgo.Interaction) error {
	return r.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx))
}

func (r *SessionResponder) ReplyEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error {
	return r.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
}

type sessionHost struct {
	*Collector
	*SessionResponder
}

// NewSessionHost wires both capabilities to s.
func NewSessionHost(s *discordgo.Session) Host {
	return sessionHost{Collector: NewCollector(s), SessionResponder: NewSessionResponder(s)}
}
