package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/metrics"
	"github.com/conduit-lang/gridmeta/internal/table/propinfo"
)

// Snapshot is the published form of a table's derivation.
type Snapshot struct {
	TableID        string                  `json:"tableId"`
	ContextPath    string                  `json:"contextPath"`
	GeneratedAt    time.Time               `json:"generatedAt"`
	DraftIndicator string                  `json:"draftIndicator,omitempty"`
	Properties     []propinfo.PropertyInfo `json:"properties"`
}

// PublisherConfig configures a Publisher
type PublisherConfig struct {
	// TTL of published snapshots; zero uses the store's default
	TTL    time.Duration
	Clock  clockwork.Clock
	Logger *zap.Logger
}

// Publisher writes snapshots to a Store and removes them on invalidation.
type Publisher struct {
	store  Store
	ttl    time.Duration
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewPublisher creates a publisher over store
func NewPublisher(store Store, config PublisherConfig) *Publisher {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Publisher{store: store, ttl: config.TTL, clock: config.Clock, logger: config.Logger}
}

// Publish stores the snapshot under the table's key.
func (p *Publisher) Publish(ctx context.Context, snap *Snapshot) (err error) {
	defer func() { metrics.RecordSnapshotPublish(err) }()

	if snap.GeneratedAt.IsZero() {
		snap.GeneratedAt = p.clock.Now().UTC()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot of %s: %w", snap.TableID, err)
	}
	if err := p.store.Set(ctx, TableKey(snap.TableID), data, p.ttl); err != nil {
		return fmt.Errorf("failed to publish snapshot of %s: %w", snap.TableID, err)
	}

	p.logger.Debug("published snapshot",
		zap.String("table", snap.TableID),
		zap.Int("properties", len(snap.Properties)))
	return nil
}

// Fetch reads the published snapshot of a table.
func (p *Publisher) Fetch(ctx context.Context, tableID string) (*Snapshot, error) {
	data, err := p.store.Get(ctx, TableKey(tableID))
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of %s: %w", tableID, err)
	}
	return &snap, nil
}

// Drop removes the published snapshot of a table
func (p *Publisher) Drop(ctx context.Context, tableID string) error {
	return p.store.Delete(ctx, TableKey(tableID))
}

// Published returns the tables that currently have a snapshot
func (p *Publisher) Published(ctx context.Context) ([]string, error) {
	return p.store.Tables(ctx)
}

// Prune drops the snapshots of tables outside registered and returns how
// many were dropped. Snapshots left by an earlier run for tables that no
// longer exist would otherwise live until their TTL.
func (p *Publisher) Prune(ctx context.Context, registered []string) (int, error) {
	published, err := p.store.Tables(ctx)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]bool, len(registered))
	for _, id := range registered {
		keep[id] = true
	}

	dropped := 0
	for _, id := range published {
		if keep[id] {
			continue
		}
		if err := p.Drop(ctx, id); err != nil {
			return dropped, err
		}
		dropped++
	}
	if dropped > 0 {
		p.logger.Info("pruned stale snapshots", zap.Int("dropped", dropped))
	}
	return dropped, nil
}
