package publishers

import (
	"time"

	"github.com/samvad-hq/netter/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	TargetID    string          `json:"target_id"`
	Outcome     string          `json:"outcome"`
	Snapshot    domain.Snapshot `json:"snapshot"`
	PublishedAt time.Time       `json:"published_at"`
}

// NewEvent constructs an Event for a polled snapshot.
func NewEvent(snap domain.Snapshot) Event {
	return Event{
		TargetID:    snap.TargetID,
		Outcome:     outcomeLabel(snap),
		Snapshot:    snap,
		PublishedAt: time.Now().UTC(),
	}
}

// Attributes are the message attributes attached by queue/topic publishers.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"target_id": e.TargetID,
		"outcome":   e.Outcome,
	}
}

func outcomeLabel(snap domain.Snapshot) string {
	if snap.Result.OK() {
		return "success"
	}
	return snap.Result.Kind().String()
}
