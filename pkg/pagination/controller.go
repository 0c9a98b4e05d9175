package pagination

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

type result int

const (
	resultIgnored result = iota
	resultRejected
	resultMoved
	resultStopped
)

// controller is the per-session state machine. Only run touches it, so index
// updates and edits are serialized without a lock.
type controller struct {
	pages       []*discordgo.MessageEmbed
	settings    settings
	controls    controls
	renderer    renderer
	requesterID string
	reply       ReplyContext
	responder   Responder
	logger      *slog.Logger

	index int
}

func (c *controller) message(ctrls []discordgo.MessageComponent) *Message {
	return &Message{
		Embeds:     []*discordgo.MessageEmbed{c.renderer.render(c.index)},
		Components: ctrls,
		Ephemeral:  c.settings.ephemeral,
	}
}

// run consumes events until stop, timeout or ctx cancellation, then renders
// the final state.
func (c *controller) run(ctx context.Context, events <-chan *discordgo.InteractionCreate) error {
	timer := time.NewTimer(c.settings.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return c.finish(context.WithoutCancel(ctx), "cancelled")
		case <-timer.C:
			return c.finish(ctx, "timeout")
		case ev := <-events:
			res, err := c.handle(ctx, ev)
			if err != nil {
				return err
			}
			switch res {
			case resultStopped:
				return c.finish(ctx, "stopped")
			case resultMoved:
				if c.settings.resetTimer {
					timer.Reset(c.settings.timeout)
				}
			}
		}
	}
}

func (c *controller) handle(ctx context.Context, ev *discordgo.InteractionCreate) (result, error) {
	if ev == nil || ev.Interaction == nil || ev.Type != discordgo.InteractionMessageComponent {
		return resultIgnored, nil
	}

	if userID := interactionUserID(ev.Interaction); userID != c.requesterID {
		if err := c.responder.ReplyEphemeral(ctx, ev.Interaction, c.settings.secondaryUserText); err != nil {
			c.logger.Warn("Failed to notify secondary user", "userID", userID, "error", err)
		}
		return resultRejected, nil
	}

	data := ev.MessageComponentData()
	next, stop := c.index, false
	if data.CustomID == PageMenuID {
		next = selectPage(c.index, len(c.pages), data.Values)
	} else {
		next, stop = step(c.index, len(c.pages), Role(data.CustomID))
	}

	if err := c.responder.Acknowledge(ctx, ev.Interaction); err != nil {
		c.logger.Debug("Interaction acknowledge failed", "customID", data.CustomID, "error", err)
	}
	if stop {
		return resultStopped, nil
	}

	c.index = next
	if err := c.reply.Edit(ctx, c.message(c.controls.rows())); err != nil {
		return resultMoved, &DeliveryError{Op: "edit", Err: err}
	}
	return resultMoved, nil
}

// finish renders the current page once more. Controls are kept disabled when
// DisableOnEnd is set and removed otherwise.
func (c *controller) finish(ctx context.Context, reason string) error {
	components := []discordgo.MessageComponent{}
	if c.settings.disableOnEnd {
		components = withDisabled(c.controls).rows()
	}
	if err := c.reply.Edit(ctx, c.message(components)); err != nil {
		return &DeliveryError{Op: "final edit", Err: err}
	}

	c.logger.Debug("Pagination session ended", "reason", reason, "page", c.index+1, "pages", len(c.pages))
	return nil
}
