package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/discord/cache"
	"github.com/small-frappuccino/discordpager/pkg/discord/commands/core"
	"github.com/small-frappuccino/discordpager/pkg/log"
	"github.com/small-frappuccino/discordpager/pkg/pagination"
	"github.com/small-frappuccino/discordpager/pkg/storage"
)

const (
	commandName = "pages"
	optionName  = "name"

	// autocompleteTTL bounds how stale suggested deck names may be.
	autocompleteTTL = 5 * time.Second

	shuttingDownText = "The bot is restarting, try again in a moment."
)

// PagesCommands serves stored decks through the paginator, from both the
// /pages slash command and the !pages message command.
type PagesCommands struct {
	baseCtx context.Context
	store   storage.DeckStore
	options pagination.Options
	logger  *slog.Logger
	names   *cache.TTLMap[[]string]

	// newHost is swapped in tests.
	newHost func(*discordgo.Session) pagination.Host

	mu       sync.Mutex
	closing  bool
	sessions sync.WaitGroup
}

// ErrShuttingDown is returned for commands that arrive after Shutdown.
var ErrShuttingDown = errors.New("pages: shutting down")

// NewPagesCommands returns the deck commands. Sessions started by them end
// when ctx is cancelled.
func NewPagesCommands(ctx context.Context, store storage.DeckStore, opts pagination.Options) *PagesCommands {
	return &PagesCommands{
		baseCtx: ctx,
		store:   store,
		options: opts,
		logger:  log.DiscordLogger().With("component", "pages"),
		names:   cache.NewTTLMap[[]string](autocompleteTTL, 0),
		newHost: pagination.NewSessionHost,
	}
}

// RegisterCommands adds /pages to router.
func (pc *PagesCommands) RegisterCommands(router *core.CommandRouter) {
	group := core.NewGroupCommand(commandName, "Browse saved embed decks", router.GetPermissionChecker())
	group.AddSubCommand(&showSubCommand{pc: pc})
	group.AddSubCommand(&listSubCommand{pc: pc})
	group.AddSubCommand(&deleteSubCommand{pc: pc})
	router.RegisterCommand(group)
	router.RegisterAutocomplete(commandName, pc)
}

// Wait blocks until every running session has rendered its final state.
func (pc *PagesCommands) Wait() {
	pc.sessions.Wait()
}

// Shutdown refuses new sessions and waits for running ones until ctx is done.
// Cancel the context given to NewPagesCommands first so sessions end promptly.
func (pc *PagesCommands) Shutdown(ctx context.Context) error {
	pc.mu.Lock()
	pc.closing = true
	pc.mu.Unlock()

	done := make(chan struct{})
	go func() {
		pc.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// paginate validates synchronously, then runs the session in the background.
func (pc *PagesCommands) paginate(pages []*discordgo.MessageEmbed, opts pagination.Options, reply pagination.ReplyContext, host pagination.Host, logger *slog.Logger) error {
	p, err := pagination.New(pages, opts)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	if pc.closing || pc.baseCtx.Err() != nil {
		pc.mu.Unlock()
		return ErrShuttingDown
	}
	pc.sessions.Add(1)
	pc.mu.Unlock()

	go func() {
		defer pc.sessions.Done()
		if err := p.Run(pc.baseCtx, reply, host); err != nil {
			logger.Error("Pagination session failed", "error", err)
		}
	}()
	return nil
}

func (pc *PagesCommands) interactionPaginate(ctx *core.Context, pages []*discordgo.MessageEmbed, ephemeral bool) error {
	opts := pc.options
	opts.Session.Ephemeral = ephemeral
	reply := pagination.NewInteractionReply(ctx.Session, ctx.Interaction.Interaction, false)

	err := pc.paginate(pages, opts, reply, pc.newHost(ctx.Session), ctx.Logger)
	var ve *pagination.ValidationError
	switch {
	case errors.As(err, &ve):
		return core.NewCommandError(ve.Message, true)
	case errors.Is(err, ErrShuttingDown):
		return core.NewCommandError(shuttingDownText, true)
	}
	return err
}

// HandleAutocomplete suggests deck names visible from the current guild.
func (pc *PagesCommands) HandleAutocomplete(ctx *core.Context, focusedOption string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if focusedOption != optionName {
		return nil, nil
	}
	names, err := pc.visibleDeckNames(ctx.GuildID)
	if err != nil {
		return nil, err
	}

	typed := ""
	if opt, ok := core.HasFocusedOption(ctx.Interaction.ApplicationCommandData().Options); ok {
		typed = opt.StringValue()
	}
	return core.FilterChoices(core.CreateChoicesFromStrings(names), typed), nil
}

func (pc *PagesCommands) visibleDeckNames(guildID string) ([]string, error) {
	if names, ok := pc.names.Get(guildID); ok {
		return names, nil
	}
	guildDecks, globalDecks, err := pc.summaries(guildID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, d := range append(guildDecks, globalDecks...) {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	pc.names.Set(guildID, names, 0)
	return names, nil
}

func (pc *PagesCommands) summaries(guildID string) (guildDecks, globalDecks []storage.DeckSummary, err error) {
	if guildID != "" && guildID != storage.GlobalGuildID {
		if guildDecks, err = pc.store.ListDecks(guildID); err != nil {
			return nil, nil, err
		}
	}
	if globalDecks, err = pc.store.ListDecks(storage.GlobalGuildID); err != nil {
		return nil, nil, err
	}
	return guildDecks, globalDecks, nil
}

func deckNameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         optionName,
		Description:  "Deck name",
		Required:     true,
		Autocomplete: true,
		MaxLength:    storage.MaxDeckNameLen,
	}
}

func notFound(name string) error {
	return core.NewCommandError(fmt.Sprintf("Deck `%s` not found.", storage.NormalizeDeckName(name)), true)
}

type showSubCommand struct {
	pc *PagesCommands
}

func (c *showSubCommand) Name() string        { return "show" }
func (c *showSubCommand) Description() string { return "Show a saved deck" }
func (c *showSubCommand) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		deckNameOption(),
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "ephemeral",
			Description: "Only you can see the deck",
		},
	}
}
func (c *showSubCommand) RequiresGuild() bool       { return false }
func (c *showSubCommand) RequiresPermissions() bool { return false }

func (c *showSubCommand) Handle(ctx *core.Context) error {
	opts := core.NewOptionExtractor(core.GetSubCommandOptions(ctx.Interaction))
	name, err := opts.StringRequired(optionName)
	if err != nil {
		return err
	}

	deck, err := storage.Lookup(c.pc.store, ctx.GuildID, name)
	if err != nil {
		return err
	}
	if deck == nil {
		return notFound(name)
	}

	ctx.Logger.Info("Showing deck", "deck", deck.Name, "scope", deck.GuildID, "pages", len(deck.Pages))
	return c.pc.interactionPaginate(ctx, deck.Pages, opts.Bool("ephemeral"))
}

type listSubCommand struct {
	pc *PagesCommands
}

func (c *listSubCommand) Name() string        { return "list" }
func (c *listSubCommand) Description() string { return "List the saved decks" }
func (c *listSubCommand) Options() []*discordgo.ApplicationCommandOption {
	return nil
}
func (c *listSubCommand) RequiresGuild() bool       { return false }
func (c *listSubCommand) RequiresPermissions() bool { return false }

func (c *listSubCommand) Handle(ctx *core.Context) error {
	guildDecks, globalDecks, err := c.pc.summaries(ctx.GuildID)
	if err != nil {
		return err
	}
	return c.pc.interactionPaginate(ctx, listPages(guildDecks, globalDecks), true)
}

type deleteSubCommand struct {
	pc *PagesCommands
}

func (c *deleteSubCommand) Name() string        { return "delete" }
func (c *deleteSubCommand) Description() string { return "Delete one of this server's decks" }
func (c *deleteSubCommand) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{deckNameOption()}
}
func (c *deleteSubCommand) RequiresGuild() bool       { return true }
func (c *deleteSubCommand) RequiresPermissions() bool { return true }

func (c *deleteSubCommand) Handle(ctx *core.Context) error {
	name, err := core.NewOptionExtractor(core.GetSubCommandOptions(ctx.Interaction)).StringRequired(optionName)
	if err != nil {
		return err
	}

	deleted, err := c.pc.store.DeleteDeck(ctx.GuildID, name)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(name)
	}
	c.pc.names.Delete(ctx.GuildID)

	ctx.Logger.Info("Deck deleted", "deck", storage.NormalizeDeckName(name))
	return ctx.Responder.Success(ctx.Interaction, fmt.Sprintf("Deck `%s` deleted.", storage.NormalizeDeckName(name)))
}
