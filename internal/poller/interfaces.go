package poller

import (
	"context"

	"github.com/samvad-hq/netter/pkg/netter"
	"github.com/samvad-hq/netter/pkg/publishers"
)

// Sender starts an exchange and delivers its Result to cb exactly once.
type Sender interface {
	Send(ctx context.Context, desc netter.Descriptor, url string, cb netter.Callback) string
}

// EventPublisher publishes snapshots downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// SnapshotStore remembers the last published digest per target.
type SnapshotStore interface {
	Changed(target, digest string) (bool, error)
	Record(target, digest string) error
}
