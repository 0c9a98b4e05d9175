package pagination

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Role is the navigation purpose of a button. It doubles as the button custom ID.
type Role string

const (
	RoleFirst Role = "first"
	RolePrev  Role = "prev"
	RoleStop  Role = "stop"
	RoleNext  Role = "next"
	RoleLast  Role = "last"
)

// PageMenuID is the custom ID of the page select menu.
const PageMenuID = "pageMenu"

const (
	maxSelectOptions  = 25
	maxOptionLabelLen = 100
)

// rolesByCount assigns roles to buttons by position.
var rolesByCount = map[int][]Role{
	2: {RolePrev, RoleNext},
	3: {RolePrev, RoleStop, RoleNext},
	4: {RoleFirst, RolePrev, RoleNext, RoleLast},
	5: {RoleFirst, RolePrev, RoleStop, RoleNext, RoleLast},
}

// RolesFor returns the positional roles for n buttons, or nil if n is not 2..5.
func RolesFor(n int) []Role {
	roles, ok := rolesByCount[n]
	if !ok {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

type buttonControl struct {
	spec     ButtonSpec
	role     Role
	disabled bool
}

type menuControl struct {
	placeholder string
	options     []discordgo.SelectMenuOption
	disabled    bool
}

// controls is an immutable description of the navigation UI. Values are
// never modified after buildControls; withDisabled derives a new one.
type controls struct {
	hasMenu bool
	menu    menuControl
	buttons []buttonControl
	// titleLabels is set when menu options are labelled with page titles.
	titleLabels bool
}

func buildControls(pages []*discordgo.MessageEmbed, s settings) (controls, error) {
	if len(pages) == 0 {
		return controls{}, newValidationError("pages", -1, ErrPagesRequired)
	}
	for i, p := range pages {
		if p == nil {
			return controls{}, newValidationError("pages", i, "Page at position %d is nil.", i)
		}
	}
	if s.selectMenu && len(pages) > maxSelectOptions {
		return controls{}, newValidationError("selectMenu", -1, ErrSelectMenuTooLarge)
	}

	n := len(s.buttons)
	roles, ok := rolesByCount[n]
	switch {
	case !s.selectMenu && !ok:
		return controls{}, newValidationError("buttons", -1, ErrButtonCount, n)
	case s.selectMenu && n != 0 && !ok:
		return controls{}, newValidationError("buttons", -1, ErrButtonCount, n)
	}

	var c controls
	for i, spec := range s.buttons {
		if spec.Label == "" && spec.Emoji == nil {
			return controls{}, newValidationError("buttons", i, ErrButtonAppearance, i)
		}
		if spec.Style == discordgo.LinkButton {
			return controls{}, newValidationError("buttons", i, ErrButtonLinkStyle, i)
		}
		c.buttons = append(c.buttons, buttonControl{spec: spec, role: roles[i]})
	}

	if s.selectMenu {
		options, titles := menuOptions(pages, s.pageOnly)
		c.hasMenu = true
		c.menu = menuControl{placeholder: s.placeholder, options: options}
		c.titleLabels = titles
	}
	return c, nil
}

// menuOptions labels options "Page N" when pageOnly is set or every page
// shares the first page's title; otherwise it uses the page titles.
func menuOptions(pages []*discordgo.MessageEmbed, pageOnly bool) ([]discordgo.SelectMenuOption, bool) {
	useTitles := false
	if !pageOnly {
		first := pages[0].Title
		for _, p := range pages[1:] {
			if p.Title != first {
				useTitles = true
				break
			}
		}
	}

	options := make([]discordgo.SelectMenuOption, len(pages))
	for i, p := range pages {
		label := pageLabel(i)
		if useTitles && p.Title != "" {
			label = truncateRunes(p.Title, maxOptionLabelLen)
		}
		options[i] = discordgo.SelectMenuOption{
			Label: label,
			Value: strconv.Itoa(i),
		}
	}
	return options, useTitles
}

func pageLabel(i int) string {
	return fmt.Sprintf("Page %d", i+1)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// withDisabled returns a copy of c with every control disabled.
func withDisabled(c controls) controls {
	out := controls{
		hasMenu:     c.hasMenu,
		titleLabels: c.titleLabels,
	}
	if c.hasMenu {
		out.menu = menuControl{
			placeholder: c.menu.placeholder,
			options:     append([]discordgo.SelectMenuOption(nil), c.menu.options...),
			disabled:    true,
		}
	}
	if len(c.buttons) > 0 {
		out.buttons = make([]buttonControl, len(c.buttons))
		for i, b := range c.buttons {
			b.disabled = true
			out.buttons[i] = b
		}
	}
	return out
}

// rows renders the descriptors as Discord action rows: menu row first, then buttons.
func (c controls) rows() []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, 2)
	if c.hasMenu {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    PageMenuID,
					Placeholder: c.menu.placeholder,
					Options:     append([]discordgo.SelectMenuOption(nil), c.menu.options...),
					Disabled:    c.menu.disabled,
				},
			},
		})
	}
	if len(c.buttons) > 0 {
		buttons := make([]discordgo.MessageComponent, 0, len(c.buttons))
		for _, b := range c.buttons {
			buttons = append(buttons, discordgo.Button{
				Label:    b.spec.Label,
				Emoji:    b.spec.Emoji,
				Style:    b.spec.Style,
				CustomID: string(b.role),
				Disabled: b.disabled,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

// roles lists the button roles in row order.
func (c controls) roles() []Role {
	out := make([]Role, len(c.buttons))
	for i, b := range c.buttons {
		out[i] = b.role
	}
	return out
}
