package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/small-frappuccino/discordpager/pkg/errutil"
	bolt "go.etcd.io/bbolt"
)

var decksBucket = []byte("decks")

// BoltStore keeps decks as JSON values in a bbolt file, keyed guild\x00name.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(decksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating decks bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func boltKey(guildID, name string) []byte {
	return []byte(guildID + "\x00" + name)
}

func (s *BoltStore) SaveDeck(d Deck) error {
	if err := d.Validate(); err != nil {
		return err
	}
	stamp(&d)
	d.UpdatedAt = d.UpdatedAt.UTC()

	return errutil.HandleStoreError("save_deck", deckKey(d.GuildID, d.Name), func() error {
		return s.db.Update(func(tx *bolt.Tx) error {
			data, err := json.Marshal(d)
			if err != nil {
				return err
			}
			return tx.Bucket(decksBucket).Put(boltKey(d.GuildID, d.Name), data)
		})
	})
}

func (s *BoltStore) GetDeck(guildID, name string) (*Deck, error) {
	name = NormalizeDeckName(name)

	var d *Deck
	err := errutil.HandleStoreError("get_deck", deckKey(guildID, name), func() error {
		return s.db.View(func(tx *bolt.Tx) error {
			v := tx.Bucket(decksBucket).Get(boltKey(guildID, name))
			if v == nil {
				return nil
			}
			d = &Deck{}
			return json.Unmarshal(v, d)
		})
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDecks walks the guild's key prefix; bbolt keys are sorted, so names come back ordered.
func (s *BoltStore) ListDecks(guildID string) ([]DeckSummary, error) {
	var out []DeckSummary
	prefix := boltKey(guildID, "")
	err := errutil.HandleStoreError("list_decks", guildID, func() error {
		return s.db.View(func(tx *bolt.Tx) error {
			c := tx.Bucket(decksBucket).Cursor()
			for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
				var d Deck
				if err := json.Unmarshal(v, &d); err != nil {
					return fmt.Errorf("decode %q: %w", k, err)
				}
				out = append(out, d.Summary())
			}
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) DeleteDeck(guildID, name string) (bool, error) {
	name = NormalizeDeckName(name)

	var deleted bool
	err := errutil.HandleStoreError("delete_deck", deckKey(guildID, name), func() error {
		return s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(decksBucket)
			key := boltKey(guildID, name)
			if b.Get(key) == nil {
				return nil
			}
			deleted = true
			return b.Delete(key)
		})
	})
	return deleted, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
