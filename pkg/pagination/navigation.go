package pagination

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// step applies a button role to index on a deck of count pages. prev and next
// wrap around; first and last pin to the ends. stop reports true and leaves
// the index unchanged.
func step(index, count int, role Role) (int, bool) {
	switch role {
	case RoleFirst:
		return 0, false
	case RoleLast:
		return count - 1, false
	case RolePrev:
		if index > 0 {
			return index - 1, false
		}
		return count - 1, false
	case RoleNext:
		if index < count-1 {
			return index + 1, false
		}
		return 0, false
	case RoleStop:
		return index, true
	}
	return index, false
}

// selectPage returns the page picked in the select menu, or index when the
// value is missing or out of range.
func selectPage(index, count int, values []string) int {
	if len(values) == 0 {
		return index
	}
	n, err := strconv.Atoi(values[0])
	if err != nil || n < 0 || n >= count {
		return index
	}
	return n
}

func interactionUserID(i *discordgo.Interaction) string {
	if i == nil {
		return ""
	}
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
