package pagination

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Defaults applied by normalize.
const (
	DefaultTimeout           = 60 * time.Second
	DefaultPlaceholder       = "Select a page"
	DefaultSecondaryUserText = "This menu is not for you."
)

// ButtonSpec describes one navigation button. Its role comes from its position.
type ButtonSpec struct {
	Label string
	Emoji *discordgo.ComponentEmoji
	Style discordgo.ButtonStyle
}

// SelectMenuConfig enables the page select menu.
type SelectMenuConfig struct {
	Enabled bool
	// PageOnly forces "Page N" option labels even when pages have distinct titles.
	PageOnly    bool
	Placeholder string
}

// SessionConfig controls the interaction collector.
type SessionConfig struct {
	Ephemeral bool
	Timeout   time.Duration
	// ResetTimer restarts the timeout after each accepted interaction. nil means true.
	ResetTimer *bool
	// DisableOnEnd keeps the controls, disabled, on the final render. nil means true.
	// When false the final render carries no components.
	DisableOnEnd      *bool
	SecondaryUserText string
}

// Options configures a paginator.
type Options struct {
	Buttons    []ButtonSpec
	SelectMenu SelectMenuConfig
	Session    SessionConfig
}

// settings is Options with every default resolved.
type settings struct {
	buttons           []ButtonSpec
	selectMenu        bool
	pageOnly          bool
	placeholder       string
	ephemeral         bool
	timeout           time.Duration
	resetTimer        bool
	disableOnEnd      bool
	secondaryUserText string
}

func (o Options) normalize() settings {
	s := settings{
		selectMenu:        o.SelectMenu.Enabled,
		pageOnly:          o.SelectMenu.PageOnly,
		placeholder:       o.SelectMenu.Placeholder,
		ephemeral:         o.Session.Ephemeral,
		timeout:           o.Session.Timeout,
		resetTimer:        boolOr(o.Session.ResetTimer, true),
		disableOnEnd:      boolOr(o.Session.DisableOnEnd, true),
		secondaryUserText: o.Session.SecondaryUserText,
	}
	if s.placeholder == "" {
		s.placeholder = DefaultPlaceholder
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.secondaryUserText == "" {
		s.secondaryUserText = DefaultSecondaryUserText
	}

	s.buttons = make([]ButtonSpec, len(o.Buttons))
	copy(s.buttons, o.Buttons)
	for i := range s.buttons {
		if s.buttons[i].Style == 0 {
			s.buttons[i].Style = discordgo.SecondaryButton
		}
	}
	return s
}

// Bool returns a pointer to v, for the optional SessionConfig flags.
func Bool(v bool) *bool { return &v }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
