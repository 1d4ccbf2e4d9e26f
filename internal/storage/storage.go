package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers the last published result per target.

// Store tracks the digest of the last result published for each target.
type Store interface {
	Close() error
	// Changed reports whether digest differs from the live entry for target.
	// A missing or expired entry counts as changed.
	Changed(target, digest string) (bool, error)
	Record(target, digest string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SnapshotTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSnapshotTTL     = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = defaultSnapshotTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore treats every result as changed.
type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) Changed(string, string) (bool, error) { return true, nil }
func (noopStore) Record(string, string) error           { return nil }
