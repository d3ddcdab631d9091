package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"

	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
)

const negotiationPrefix = "negotiation:"

// PebbleStore keeps negotiations in a Pebble database, one record per
// composite key. Each Save is a synced whole-record write, so readers see
// either the previous or the new snapshot, never a partial one.
type PebbleStore struct {
	db *pebble.DB
}

func OpenPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble db at %s: %w", path, err)
	}
	slog.Info("negotiation store opened", "backend", "pebble", "path", path)
	return &PebbleStore{db: db}, nil
}

func pebbleKey(key string) []byte {
	return []byte(negotiationPrefix + key)
}

func (s *PebbleStore) Save(n *negotiation.Negotiation) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal negotiation: %w", err)
	}
	if err := s.db.Set(pebbleKey(n.Key()), data, pebble.Sync); err != nil {
		return fmt.Errorf("write negotiation %s: %w", n.Key(), err)
	}
	return nil
}

func (s *PebbleStore) Load(key string) (*negotiation.Negotiation, bool, error) {
	val, closer, err := s.db.Get(pebbleKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read negotiation %s: %w", key, err)
	}
	defer closer.Close()

	var n negotiation.Negotiation
	if err := json.Unmarshal(val, &n); err != nil {
		return nil, false, fmt.Errorf("decode negotiation %s: %w", key, err)
	}
	return &n, true, nil
}

func (s *PebbleStore) LoadAll() (map[string]*negotiation.Negotiation, error) {
	prefix := []byte(negotiationPrefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	out := make(map[string]*negotiation.Negotiation)
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		key := string(iter.Key()[len(prefix):])
		var n negotiation.Negotiation
		if err := json.Unmarshal(iter.Value(), &n); err != nil {
			return nil, fmt.Errorf("decode negotiation %s: %w", key, err)
		}
		out[key] = &n
	}
	return out, iter.Error()
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
