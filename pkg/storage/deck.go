package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// GlobalGuildID scopes decks that are visible in every guild.
const GlobalGuildID = "global"

const (
	MaxDeckNameLen = 64
	MaxDeckPages   = 100
)

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// ErrInvalidDeck is wrapped by every deck validation failure.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is a named list of embeds that can be paginated on request.
type Deck struct {
	GuildID   string                    `json:"guild_id"`
	Name      string                    `json:"name"`
	Pages     []*discordgo.MessageEmbed `json:"pages"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// DeckSummary is a deck without its pages.
type DeckSummary struct {
	GuildID   string    `json:"guild_id"`
	Name      string    `json:"name"`
	PageCount int       `json:"page_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckStore persists decks per guild.
type DeckStore interface {
	SaveDeck(d Deck) error
	// GetDeck returns nil, nil when the deck does not exist.
	GetDeck(guildID, name string) (*Deck, error)
	ListDecks(guildID string) ([]DeckSummary, error)
	DeleteDeck(guildID, name string) (bool, error)
	Close() error
}

// NormalizeDeckName trims and lowercases a deck name.
func NormalizeDeckName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Validate checks the deck and normalizes its name in place.
func (d *Deck) Validate() error {
	d.Name = NormalizeDeckName(d.Name)
	if strings.TrimSpace(d.GuildID) == "" {
		return fmt.Errorf("%w: guild id is required", ErrInvalidDeck)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDeck)
	}
	if utf8.RuneCountInString(d.Name) > MaxDeckNameLen {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidDeck, MaxDeckNameLen)
	}
	if len(d.Pages) == 0 {
		return fmt.Errorf("%w: at least one page is required", ErrInvalidDeck)
	}
	if len(d.Pages) > MaxDeckPages {
		return fmt.Errorf("%w: at most %d pages are allowed", ErrInvalidDeck, MaxDeckPages)
	}
	for i, p := range d.Pages {
		if p == nil {
			return fmt.Errorf("%w: page %d is empty", ErrInvalidDeck, i)
		}
	}
	return nil
}

// Summary drops the pages.
func (d Deck) Summary() DeckSummary {
	return DeckSummary{GuildID: d.GuildID, Name: d.Name, PageCount: len(d.Pages), UpdatedAt: d.UpdatedAt}
}

// Open opens the deck store for driver at path. An empty driver selects SQLite.
func Open(driver, path string) (DeckStore, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		s := NewSQLiteStore(path)
		if err := s.Init(); err != nil {
			return nil, err
		}
		return s, nil
	case DriverBolt:
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Lookup returns the guild's deck, falling back to the global deck of the
// same name.
func Lookup(s DeckStore, guildID, name string) (*Deck, error) {
	name = NormalizeDeckName(name)
	if guildID != "" && guildID != GlobalGuildID {
		d, err := s.GetDeck(guildID, name)
		if err != nil || d != nil {
			return d, err
		}
	}
	return s.GetDeck(GlobalGuildID, name)
}

func stamp(d *Deck) {
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
}
