package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/discordpager/pkg/errutil"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps decks in an embedded SQLite database.
// It uses modernc.org/sqlite for CGO-less builds.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
}

// NewSQLiteStore creates a store pointing to dbPath. Call Init() before using it.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{dbPath: dbPath}
}

// Init opens the SQLite database, configures pragmas, and ensures the schema exists.
func (s *SQLiteStore) Init() error {
	if s.db != nil {
		return nil
	}
	if s.dbPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	// Pragmas for durability and concurrency
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set synchronous: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) SaveDeck(d Deck) error {
	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	stamp(&d)

	return errutil.HandleStoreError("save_deck", deckKey(d.GuildID, d.Name), func() error {
		pages, err := json.Marshal(d.Pages)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(
			`INSERT INTO decks (guild_id, name, pages_json, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(guild_id, name) DO UPDATE SET
           pages_json=excluded.pages_json,
           updated_at=excluded.updated_at`,
			d.GuildID, d.Name, string(pages), d.UpdatedAt.UTC(),
		)
		return err
	})
}

func (s *SQLiteStore) GetDeck(guildID, name string) (*Deck, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	name = NormalizeDeckName(name)

	var deck *Deck
	err := errutil.HandleStoreError("get_deck", deckKey(guildID, name), func() error {
		row := s.db.QueryRow(
			`SELECT pages_json, updated_at FROM decks WHERE guild_id=? AND name=?`,
			guildID, name,
		)
		var raw string
		var updated time.Time
		if err := row.Scan(&raw, &updated); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		var pages []*discordgo.MessageEmbed
		if err := json.Unmarshal([]byte(raw), &pages); err != nil {
			return fmt.Errorf("decode pages: %w", err)
		}
		deck = &Deck{GuildID: guildID, Name: name, Pages: pages, UpdatedAt: updated.UTC()}
		return nil
	})
	return deck, err
}

// ListDecks returns the guild's decks ordered by name.
func (s *SQLiteStore) ListDecks(guildID string) ([]DeckSummary, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}

	var out []DeckSummary
	err := errutil.HandleStoreError("list_decks", guildID, func() error {
		rows, err := s.db.Query(
			`SELECT name, json_array_length(pages_json), updated_at FROM decks WHERE guild_id=? ORDER BY name`,
			guildID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			sum := DeckSummary{GuildID: guildID}
			if err := rows.Scan(&sum.Name, &sum.PageCount, &sum.UpdatedAt); err != nil {
				return err
			}
			sum.UpdatedAt = sum.UpdatedAt.UTC()
			out = append(out, sum)
		}
		return rows.Err()
	})
	return out, err
}

func (s *SQLiteStore) DeleteDeck(guildID, name string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("store not initialized")
	}
	name = NormalizeDeckName(name)

	var deleted bool
	err := errutil.HandleStoreError("delete_deck", deckKey(guildID, name), func() error {
		res, err := s.db.Exec(`DELETE FROM decks WHERE guild_id=? AND name=?`, guildID, name)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func ensureSchema(db *sql.DB) error {
	const createDecks = `
CREATE TABLE IF NOT EXISTS decks (
  guild_id   TEXT NOT NULL,
  name       TEXT NOT NULL,
  pages_json TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY (guild_id, name)
);
CREATE INDEX IF NOT EXISTS idx_decks_updated ON decks(updated_at);`

	if _, err := db.Exec(createDecks); err != nil {
		return fmt.Errorf("create decks: %w", err)
	}
	return nil
}

func deckKey(guildID, name string) string {
	return guildID + "/" + name
}
