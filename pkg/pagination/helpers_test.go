package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

const testMessageID = "msg-1"

func testPages(n int, titles ...string) []*discordgo.MessageEmbed {
	pages := make([]*discordgo.MessageEmbed, n)
	for i := range pages {
		title := "Guide"
		if i < len(titles) {
			title = titles[i]
		}
		pages[i] = &discordgo.MessageEmbed{Title: title, Description: fmt.Sprintf("body %d", i)}
	}
	return pages
}

func testButtons(n int) []ButtonSpec {
	labels := []string{"«", "‹", "■", "›", "»", "+", "-"}
	out := make([]ButtonSpec, n)
	for i := range out {
		out[i] = ButtonSpec{Label: labels[i%len(labels)], Style: discordgo.PrimaryButton}
	}
	return out
}

func componentEvent(userID, customID string, values ...string) *discordgo.InteractionCreate {
	componentType := discordgo.ButtonComponent
	if customID == PageMenuID {
		componentType = discordgo.SelectMenuComponent
	}
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:      "interaction-" + customID,
			AppID:   "app",
			Token:   "token",
			Type:    discordgo.InteractionMessageComponent,
			Member:  &discordgo.Member{User: &discordgo.User{ID: userID}},
			Message: &discordgo.Message{ID: testMessageID},
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      customID,
				ComponentType: componentType,
				Values:        values,
			},
		},
	}
}

// renderSnapshot is a snapshot of one Message taken when it was sent, since the
// embeds are shared and stamped in place.
type renderSnapshot struct {
	footer     string
	title      string
	components []discordgo.MessageComponent
}

func snapshot(msg *Message) renderSnapshot {
	r := renderSnapshot{components: msg.Components}
	if len(msg.Embeds) > 0 && msg.Embeds[0] != nil {
		r.title = msg.Embeds[0].Title
		if msg.Embeds[0].Footer != nil {
			r.footer = msg.Embeds[0].Footer.Text
		}
	}
	return r
}

type fakeReply struct {
	mu        sync.Mutex
	requester *discordgo.User
	initial   []renderSnapshot
	edits     []renderSnapshot
	sendErr   error
	editErr   error
	fetchErr  error
}

func newFakeReply(userID string) *fakeReply {
	return &fakeReply{requester: &discordgo.User{ID: userID, Username: "alice"}}
}

func (f *fakeReply) Requester() *discordgo.User { return f.requester }

func (f *fakeReply) InitialSend(_ context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.initial = append(f.initial, snapshot(msg))
	return nil
}

func (f *fakeReply) Edit(_ context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, snapshot(msg))
	return nil
}

func (f *fakeReply) FetchHandle(context.Context) (*discordgo.Message, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &discordgo.Message{ID: testMessageID, ChannelID: "channel-1"}, nil
}

func (f *fakeReply) lastEdit() renderSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return renderSnapshot{}
	}
	return f.edits[len(f.edits)-1]
}

func (f *fakeReply) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits)
}

type fakeHost struct {
	mu         sync.Mutex
	events     chan *discordgo.InteractionCreate
	subscribed string
	cancelled  bool
	acks       []string
	notices    []string
	ackErr     error
	noticeErr  error
}

func newFakeHost(events ...*discordgo.InteractionCreate) *fakeHost {
	ch := make(chan *discordgo.InteractionCreate, len(events)+1)
	for _, ev := range events {
		ch <- ev
	}
	return &fakeHost{events: ch}
}

func (h *fakeHost) Subscribe(messageID string) (<-chan *discordgo.InteractionCreate, func()) {
	h.mu.Lock()
	h.subscribed = messageID
	h.mu.Unlock()
	return h.events, func() {
		h.mu.Lock()
		h.cancelled = true
		h.mu.Unlock()
	}
}

func (h *fakeHost) Acknowledge(_ context.Context, i *discordgo.Interaction) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.acks = append(h.acks, i.ID)
	return h.ackErr
}

func (h *fakeHost) ReplyEphemeral(_ context.Context, _ *discordgo.Interaction, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, content)
	return h.noticeErr
}

var errBoom = errors.New("boom")

// buttonStates returns the Disabled flag of every component in rows, menu first.
func buttonStates(rows []discordgo.MessageComponent) []bool {
	var out []bool
	for _, row := range rows {
		ar, ok := row.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			switch c := comp.(type) {
			case discordgo.Button:
				out = append(out, c.Disabled)
			case discordgo.SelectMenu:
				out = append(out, c.Disabled)
			}
		}
	}
	return out
}

func customIDs(rows []discordgo.MessageComponent) []string {
	var out []string
	for _, row := range rows {
		ar, ok := row.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			switch c := comp.(type) {
			case discordgo.Button:
				out = append(out, c.CustomID)
			case discordgo.SelectMenu:
				out = append(out, c.CustomID)
			}
		}
	}
	return out
}
