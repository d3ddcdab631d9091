package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
)

// FileStore keeps every negotiation in one JSON file, the chat-history
// format the dashboard reads. Writes go through a temp file and rename so
// a concurrent reader only ever sees a complete snapshot.
type FileStore struct {
	mu   sync.Mutex
	path string
	recs map[string]json.RawMessage
}

func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, recs: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fresh store
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s.recs); err != nil {
			return nil, fmt.Errorf("corrupt history file %s: %w", path, err)
		}
	}

	slog.Info("negotiation store opened", "backend", "file", "path", path, "records", len(s.recs))
	return s, nil
}

func (s *FileStore) Save(n *negotiation.Negotiation) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal negotiation: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.recs[n.Key()]
	s.recs[n.Key()] = data
	if err := s.flushLocked(); err != nil {
		// keep memory consistent with what is on disk
		if had {
			s.recs[n.Key()] = prev
		} else {
			delete(s.recs, n.Key())
		}
		return err
	}
	return nil
}

// flushLocked writes the whole map atomically: marshal, temp file, rename.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".chat_history-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(key string) (*negotiation.Negotiation, bool, error) {
	s.mu.Lock()
	raw, ok := s.recs[key]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var n negotiation.Negotiation
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false, fmt.Errorf("decode negotiation %s: %w", key, err)
	}
	return &n, true, nil
}

func (s *FileStore) LoadAll() (map[string]*negotiation.Negotiation, error) {
	s.mu.Lock()
	raws := make(map[string]json.RawMessage, len(s.recs))
	for k, v := range s.recs {
		raws[k] = v
	}
	s.mu.Unlock()

	out := make(map[string]*negotiation.Negotiation, len(raws))
	for k, raw := range raws {
		var n negotiation.Negotiation
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("decode negotiation %s: %w", k, err)
		}
		out[k] = &n
	}
	return out, nil
}

func (s *FileStore) Close() error {
	return nil
}
