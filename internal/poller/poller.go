package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/netter/internal/domain"
	"github.com/samvad-hq/netter/internal/logger"
	"github.com/samvad-hq/netter/pkg/netter"
	"github.com/samvad-hq/netter/pkg/publishers"
	"github.com/samvad-hq/netter/pkg/targets"
)

// Service polls targets and publishes results that changed since the last pass.
type Service struct {
	sender    Sender
	publisher EventPublisher
	store     SnapshotStore
	log       logger.Logger
}

type polled struct {
	idx       int
	target    targets.Target
	result    netter.Result
	fetchedAt time.Time
}

// NewService wires a poller. A nil store publishes every result.
func NewService(sender Sender, pub EventPublisher, log logger.Logger, store SnapshotStore) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		sender:    sender,
		publisher: pub,
		store:     store,
		log:       log,
	}
}

// Run executes one poll pass. Exchanges are started one after another,
// spaced by each target's request delay, and run concurrently; the pass
// returns once every started exchange has delivered its Result.
func (s *Service) Run(ctx context.Context, tgts []targets.Target) error {
	if s == nil || s.sender == nil {
		return fmt.Errorf("poller service is not initialized")
	}
	if len(tgts) == 0 {
		return fmt.Errorf("no targets configured for polling")
	}

	results := make(chan polled, len(tgts))
	exchangeIDs := make([]string, len(tgts))
	var errs []error
	started := 0

	for i, t := range tgts {
		if ctx.Err() != nil {
			break
		}

		desc, err := t.Descriptor()
		if err != nil {
			errs = append(errs, fmt.Errorf("build request for target %s: %w", t.ID, err))
			continue
		}

		idx, target := i, t
		exchangeIDs[i] = s.sender.Send(ctx, desc, t.URL, func(res netter.Result) {
			results <- polled{idx: idx, target: target, result: res, fetchedAt: time.Now().UTC()}
		})
		started++

		if i < len(tgts)-1 && !sleepCtx(ctx, t.RequestDelay()) {
			break
		}
	}

	for n := 0; n < started; n++ {
		p := <-results
		snap := domain.Snapshot{
			TargetID:   p.target.ID,
			TargetName: p.target.Name,
			URL:        p.target.URL,
			Method:     p.target.Method,
			ExchangeID: exchangeIDs[p.idx],
			Result:     p.result,
			FetchedAt:  p.fetchedAt,
		}
		if err := s.process(ctx, snap); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("target poll failed", "target_error", map[string]any{
				"target_id": snap.TargetID,
				"error":     err.Error(),
			})
		}
	}

	return errors.Join(errs...)
}

// process dedups a snapshot against the store and publishes it when new.
func (s *Service) process(ctx context.Context, snap domain.Snapshot) error {
	fields := map[string]any{
		"target_id":   snap.TargetID,
		"exchange_id": snap.ExchangeID,
		"success":     snap.Result.OK(),
	}
	if !snap.Result.OK() {
		fields["error"] = snap.Result.Message()
		fields["kind"] = snap.Result.Kind().String()
	}

	digest, err := snap.Digest()
	if err != nil {
		return fmt.Errorf("digest target %s: %w", snap.TargetID, err)
	}

	if s.store != nil {
		changed, err := s.store.Changed(snap.TargetID, digest)
		if err != nil {
			// Lookup errors fall through to publishing.
			s.log.WarnObj("snapshot lookup failed", "snapshot_error", map[string]any{
				"target_id": snap.TargetID,
				"error":     err.Error(),
			})
		} else if !changed {
			s.log.DebugObj("target unchanged", "target_result", fields)
			return nil
		}
	}

	if s.publisher != nil {
		delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(snap))
		fields["delivered"] = delivered
		if err != nil && delivered == 0 {
			return fmt.Errorf("publish target %s: %w", snap.TargetID, err)
		}
		if err != nil {
			s.log.WarnObj("partial publish", "publish_error", map[string]any{
				"target_id": snap.TargetID,
				"error":     err.Error(),
			})
		}
	}

	if s.store != nil {
		if err := s.store.Record(snap.TargetID, digest); err != nil {
			return fmt.Errorf("record snapshot for target %s: %w", snap.TargetID, err)
		}
	}

	s.log.InfoObj("target polled", "target_result", fields)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
