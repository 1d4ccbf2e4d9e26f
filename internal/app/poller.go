package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/netter/internal/config"
	"github.com/samvad-hq/netter/internal/logger"
	"github.com/samvad-hq/netter/internal/poller"
	"github.com/samvad-hq/netter/internal/storage"
	"github.com/samvad-hq/netter/pkg/httpclient"
	"github.com/samvad-hq/netter/pkg/publishers"
	"github.com/samvad-hq/netter/pkg/targets"
)

// Poller is the poller runtime. It owns the poll loop, the publisher fanout
// and the snapshot store.
type Poller struct {
	cfg          *config.Config
	targetReg    *targets.Registry
	fanout       *publishers.Fanout
	pollService  *poller.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewPoller builds a poller runtime from config files.
func NewPoller(ctx context.Context, cfg *config.Config, log logger.Logger) (*Poller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	enabledTargets := targetReg.Enabled()
	targetIDs := make([]string, 0, len(enabledTargets))
	for _, t := range enabledTargets {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		SnapshotTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"snapshot_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client := httpclient.New(httpclient.NewRestyTransport(cfg.HTTPTimeout), log)

	return &Poller{
		cfg:          cfg,
		targetReg:    targetReg,
		fanout:       fanout,
		pollService:  poller.NewService(client, fanout, log, store),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	if p == nil || p.pollService == nil {
		return fmt.Errorf("poller is not initialized")
	}
	defer p.close()

	tgts := p.targetReg.Enabled()
	if len(tgts) == 0 {
		p.log.WarnObj("no enabled targets; poller idle", "targets_file", p.cfg.TargetsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	p.log.InfoObj("poller loop starting", "poller_state", map[string]any{
		"targets_count":    len(tgts),
		"publishers_count": p.fanout.Size(),
		"poll_interval":    p.pollInterval.String(),
	})

	if err := p.runOnce(ctx, tgts); err != nil {
		p.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("poller loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := p.runOnce(ctx, tgts); err != nil {
				p.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll pass across all enabled targets.
func (p *Poller) runOnce(ctx context.Context, tgts []targets.Target) error {
	start := time.Now()
	p.log.InfoObj("poll started", "poll_meta", map[string]any{
		"targets_count": len(tgts),
		"started_at":    start.UTC(),
	})
	if err := p.pollService.Run(ctx, tgts); err != nil {
		return err
	}
	p.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"targets_count": len(tgts),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and publisher clients, logging any errors encountered.
func (p *Poller) close() {
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			p.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := p.fanout.Close(); err != nil {
		p.log.ErrorObj("publisher close failed", "error", err)
	}
}
