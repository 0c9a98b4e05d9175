package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/discord/perf"
	"github.com/small-frappuccino/discordpager/pkg/log"
)

// CommandRouter routes interactions to registered commands.
type CommandRouter struct {
	registry        *CommandRegistry
	contextBuilder  *ContextBuilder
	responder       *Responder
	permChecker     *PermissionChecker
	autocompleteMap map[string]AutocompleteHandler
}

func NewCommandRouter(session *discordgo.Session) *CommandRouter {
	responder := NewResponder(session)
	return &CommandRouter{
		registry:        NewCommandRegistry(),
		contextBuilder:  NewContextBuilder(session, responder),
		responder:       responder,
		permChecker:     NewPermissionChecker(),
		autocompleteMap: make(map[string]AutocompleteHandler),
	}
}

func (cr *CommandRouter) RegisterCommand(cmd Command) {
	cr.registry.Register(cmd)
}

func (cr *CommandRouter) RegisterAutocomplete(commandName string, handler AutocompleteHandler) {
	cr.autocompleteMap[commandName] = handler
}

// HandleInteraction is the InteractionCreate handler. Component interactions
// are left to their collectors.
func (cr *CommandRouter) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if IsAutocompleteInteraction(i) {
		cr.handleAutocomplete(i)
		return
	}

	if !IsSlashCommandInteraction(i) {
		return
	}

	done := perf.StartGatewayEvent("interaction_create", slog.String("command", GetCommandPath(i)))
	defer done()
	cr.handleSlashCommand(i)
}

func (cr *CommandRouter) handleSlashCommand(i *discordgo.InteractionCreate) {
	ctx := cr.contextBuilder.BuildContext(i)
	commandName := i.ApplicationCommandData().Name

	ctx.Logger.Debug("Processing slash command")

	cmd, exists := cr.registry.GetCommand(commandName)
	if !exists {
		ctx.Logger.Error("Command not found")
		_ = cr.responder.Error(i, "Command not found")
		return
	}

	if cmd.RequiresGuild() && ctx.GuildID == "" {
		ctx.Logger.Warn("Command used outside of guild")
		_ = cr.responder.Error(i, "This command can only be used in a server")
		return
	}

	if cmd.RequiresPermissions() && !cr.permChecker.HasPermission(i) {
		ctx.Logger.Warn("User without permission tried to use command")
		_ = cr.responder.Error(i, "You do not have permission to use this command")
		return
	}

	ctx.Logger.Info("Executing command")
	if err := cmd.Handle(ctx); err != nil {
		ctx.Logger.Error("Command execution failed", "error", err)

		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			_ = cr.responder.Respond(i, cmdErr.Message, ResponseError, cmdErr.Ephemeral)
			return
		}
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			_ = cr.responder.Error(i, valErr.Message)
			return
		}
		_ = cr.responder.Error(i, "An error occurred while executing the command")
	}
}

func (cr *CommandRouter) handleAutocomplete(i *discordgo.InteractionCreate) {
	ctx := cr.contextBuilder.BuildContext(i)
	commandName := i.ApplicationCommandData().Name

	handler, exists := cr.autocompleteMap[commandName]
	if !exists {
		_ = cr.responder.Autocomplete(i, []*discordgo.ApplicationCommandOptionChoice{})
		return
	}

	focusedOpt, hasFocus := HasFocusedOption(i.ApplicationCommandData().Options)
	if !hasFocus {
		_ = cr.responder.Autocomplete(i, []*discordgo.ApplicationCommandOptionChoice{})
		return
	}

	choices, err := handler.HandleAutocomplete(ctx, focusedOpt.Name)
	if err != nil {
		ctx.Logger.Error("Autocomplete handler failed", "error", err)
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}

	_ = cr.responder.Autocomplete(i, choices)
}

func (cr *CommandRouter) GetPermissionChecker() *PermissionChecker {
	return cr.permChecker
}

// CommandManager syncs registered commands with Discord.
type CommandManager struct {
	session *discordgo.Session
	router  *CommandRouter
	logger  *slog.Logger
	remove  func()
}

func NewCommandManager(session *discordgo.Session) *CommandManager {
	return &CommandManager{
		session: session,
		router:  NewCommandRouter(session),
		logger:  log.ApplicationLogger().With("component", "command_manager"),
	}
}

func (cm *CommandManager) GetRouter() *CommandRouter {
	return cm.router
}

// SetupCommands installs the interaction handler and incrementally syncs the
// global command set: unchanged commands are skipped, changed ones edited,
// missing ones created and orphans deleted.
func (cm *CommandManager) SetupCommands() error {
	if cm.session.State == nil || cm.session.State.User == nil {
		return fmt.Errorf("session has no application user; open it before syncing commands")
	}
	appID := cm.session.State.User.ID

	cm.remove = cm.session.AddHandler(cm.router.HandleInteraction)

	registered, err := cm.session.ApplicationCommands(appID, "")
	if err != nil {
		return fmt.Errorf("failed to fetch registered commands: %w", err)
	}

	regByName := make(map[string]*discordgo.ApplicationCommand, len(registered))
	for _, rc := range registered {
		regByName[rc.Name] = rc
	}

	codeCommands := cm.router.registry.GetAllCommands()

	created, updated, unchanged := 0, 0, 0
	for name, cmd := range codeCommands {
		desired := &discordgo.ApplicationCommand{
			Name:        cmd.Name(),
			Description: cmd.Description(),
			Options:     cmd.Options(),
		}

		if existing, ok := regByName[name]; ok {
			if CompareCommands(existing, desired) {
				cm.logger.Debug("Command unchanged, skipping", "command", name)
				unchanged++
				continue
			}

			if _, err := cm.session.ApplicationCommandEdit(appID, "", existing.ID, desired); err != nil {
				return fmt.Errorf("error updating command '%s': %w", name, err)
			}
			cm.logger.Info("Command updated", "command", name)
			updated++
		} else {
			if _, err := cm.session.ApplicationCommandCreate(appID, "", desired); err != nil {
				return fmt.Errorf("error creating command '%s': %w", name, err)
			}
			cm.logger.Info("Command created", "command", name)
			created++
		}
	}

	deleted := 0
	for _, rc := range registered {
		if _, exists := codeCommands[rc.Name]; !exists {
			if err := cm.session.ApplicationCommandDelete(appID, "", rc.ID); err != nil {
				cm.logger.Warn("Error removing orphan command", "command", rc.Name, "error", err)
				continue
			}
			cm.logger.Info("Orphan command removed", "command", rc.Name)
			deleted++
		}
	}

	cm.logger.Info("Command synchronization completed",
		"created", created,
		"updated", updated,
		"deleted", deleted,
		"unchanged", unchanged,
		"total", len(codeCommands),
		"mode", "incremental",
	)
	return nil
}

// Shutdown removes the interaction handler.
func (cm *CommandManager) Shutdown() {
	if cm.remove != nil {
		cm.remove()
		cm.remove = nil
	}
}

// GroupCommand is a command made of subcommands.
type GroupCommand struct {
	name        string
	description string
	subcommands map[string]SubCommand
	checker     *PermissionChecker
}

func NewGroupCommand(name, description string, checker *PermissionChecker) *GroupCommand {
	return &GroupCommand{
		name:        name,
		description: description,
		subcommands: make(map[string]SubCommand),
		checker:     checker,
	}
}

func (gc *GroupCommand) AddSubCommand(subcmd SubCommand) {
	gc.subcommands[subcmd.Name()] = subcmd
}

func (gc *GroupCommand) Name() string {
	return gc.name
}

func (gc *GroupCommand) Description() string {
	return gc.description
}

// Options lists the subcommands sorted by name, so the payload compares
// stable across restarts.
func (gc *GroupCommand) Options() []*discordgo.ApplicationCommandOption {
	names := make([]string, 0, len(gc.subcommands))
	for name := range gc.subcommands {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make([]*discordgo.ApplicationCommandOption, 0, len(names))
	for _, name := range names {
		subcmd := gc.subcommands[name]
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        subcmd.Name(),
			Description: subcmd.Description(),
			Options:     subcmd.Options(),
		})
	}
	return options
}

// RequiresGuild is true if any subcommand requires a guild.
func (gc *GroupCommand) RequiresGuild() bool {
	for _, subcmd := range gc.subcommands {
		if subcmd.RequiresGuild() {
			return true
		}
	}
	return false
}

// RequiresPermissions is false; permissions are checked per subcommand.
func (gc *GroupCommand) RequiresPermissions() bool {
	return false
}

func (gc *GroupCommand) Handle(ctx *Context) error {
	subCommandName := GetSubCommandName(ctx.Interaction)
	if subCommandName == "" {
		return NewCommandError("No subcommand specified", true)
	}

	subcmd, exists := gc.subcommands[subCommandName]
	if !exists {
		return NewCommandError("Unknown subcommand", true)
	}

	if subcmd.RequiresGuild() && ctx.GuildID == "" {
		return NewCommandError("This subcommand can only be used in a server", true)
	}

	if subcmd.RequiresPermissions() && !gc.checker.HasPermission(ctx.Interaction) {
		return NewCommandError("You don't have permission to use this subcommand", true)
	}

	return subcmd.Handle(ctx)
}
