package pagination

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// renderer stamps the position footer onto the displayed page. Pages are
// modified in place, so a page slice must not back two live sessions.
type renderer struct {
	pages     []*discordgo.MessageEmbed
	requester *discordgo.User
	// stamp is false when menu options carry page titles; those titles are the
	// navigation cue and the embed is shown untouched.
	stamp bool
}

func newRenderer(pages []*discordgo.MessageEmbed, requester *discordgo.User, c controls) renderer {
	return renderer{pages: pages, requester: requester, stamp: !c.titleLabels}
}

func (r renderer) render(index int) *discordgo.MessageEmbed {
	page := r.pages[index]
	if !r.stamp {
		return page
	}
	page.Footer = &discordgo.MessageEmbedFooter{
		Text:    footerText(index, len(r.pages), r.requester),
		IconURL: avatarURL(r.requester),
	}
	return page
}

func footerText(index, total int, requester *discordgo.User) string {
	return fmt.Sprintf("Page %d / %d • Requested by %s", index+1, total, userTag(requester))
}

func userTag(u *discordgo.User) string {
	if u == nil {
		return "unknown user"
	}
	// Migrated accounts report discriminator "0".
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func avatarURL(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	// Empty size keeps the animated variant for a_ hashes.
	return u.AvatarURL("")
}
