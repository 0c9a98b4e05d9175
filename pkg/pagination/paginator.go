package pagination

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/log"
)

// Paginator is a validated set of pages and controls, ready to run.
type Paginator struct {
	pages    []*discordgo.MessageEmbed
	settings settings
	controls controls
}

// New validates pages and opts. It performs no I/O, so callers can report
// a *ValidationError to the user before anything is sent.
func New(pages []*discordgo.MessageEmbed, opts Options) (*Paginator, error) {
	s := opts.normalize()
	c, err := buildControls(pages, s)
	if err != nil {
		return nil, err
	}
	return &Paginator{pages: pages, settings: s, controls: c}, nil
}

// Components returns the action rows shown while the session is active.
func (p *Paginator) Components() []discordgo.MessageComponent {
	return p.controls.rows()
}

// Run sends the first page, collects interactions on it and returns when the
// session ends. The page embeds are modified in place while it runs.
func (p *Paginator) Run(ctx context.Context, reply ReplyContext, host Host) error {
	requester := reply.Requester()
	if requester == nil {
		return fmt.Errorf("pagination: reply context has no requester")
	}

	c := &controller{
		pages:       p.pages,
		settings:    p.settings,
		controls:    p.controls,
		renderer:    newRenderer(p.pages, requester, p.controls),
		requesterID: requester.ID,
		reply:       reply,
		responder:   host,
		logger:      log.DiscordLogger().With("requesterID", requester.ID),
	}

	if err := reply.InitialSend(ctx, c.message(p.controls.rows())); err != nil {
		return &DeliveryError{Op: "send", Err: err}
	}
	msg, err := reply.FetchHandle(ctx)
	if err != nil {
		return &DeliveryError{Op: "fetch", Err: err}
	}
	if msg == nil {
		return &DeliveryError{Op: "fetch", Err: fmt.Errorf("no message returned")}
	}

	events, cancel := host.Subscribe(msg.ID)
	defer cancel()

	c.logger = c.logger.With("messageID", msg.ID)
	return c.run(ctx, events)
}

// Paginate validates, sends and runs a session on s in one call.
func Paginate(ctx context.Context, s *discordgo.Session, reply ReplyContext, pages []*discordgo.MessageEmbed, opts Options) error {
	p, err := New(pages, opts)
	if err != nil {
		return err
	}
	return p.Run(ctx, reply, NewSessionHost(s))
}
