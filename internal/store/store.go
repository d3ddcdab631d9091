package store

import (
	"fmt"

	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendPebble = "pebble"
)

// Store is the durable mapping from composite negotiation key to the full
// negotiation record. It is the single source of truth for observers:
// the dashboard only ever reads the latest successfully-written snapshot
// and never mutates state.
type Store interface {
	Save(n *negotiation.Negotiation) error
	Load(key string) (*negotiation.Negotiation, bool, error)
	LoadAll() (map[string]*negotiation.Negotiation, error)
	Close() error
}

// Open builds the configured store backend. For the file backend path is
// the JSON history file; for pebble it is the database directory.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return OpenFileStore(path)
	case BackendPebble:
		return OpenPebbleStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
