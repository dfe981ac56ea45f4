package commands

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/cli/config"
	"github.com/conduit-lang/gridmeta/internal/i18n"
	"github.com/conduit-lang/gridmeta/internal/logging"
	"github.com/conduit-lang/gridmeta/internal/snapshot"
	"github.com/conduit-lang/gridmeta/internal/table/definition"
	"github.com/conduit-lang/gridmeta/internal/table/delegate"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// project is a loaded gridmeta project: configuration, metadata and the
// delegate hosting its tables.
type project struct {
	config   *config.Config
	logger   *zap.Logger
	registry *metamodel.Registry
	delegate *delegate.Delegate
	closers  []func() error
}

// loadConfig reads the --config file, or gridmeta.yml in the working directory
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

// loadProject loads the configured metadata, table definitions and texts
// and registers every table with a fresh delegate.
func loadProject(ctx context.Context) (*project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return nil, err
	}

	registry, err := metamodel.LoadFile(cfg.Path(cfg.Metadata))
	if err != nil {
		return nil, err
	}

	p := &project{config: cfg, logger: logger, registry: registry}

	delegateConfig := delegate.DefaultConfig()
	delegateConfig.Width = cfg.WidthEstimator()
	delegateConfig.Logger = logger

	if cfg.I18n != "" {
		fallback, err := i18n.ParseFallback(cfg.I18nFallback)
		if err != nil {
			return nil, err
		}
		bundle, err := i18n.LoadFile(cfg.Path(cfg.I18n), fallback)
		if err != nil {
			return nil, err
		}
		delegateConfig.Localize = bundle.Localize
	}

	store, err := p.snapshotStore(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		delegateConfig.Publisher = snapshot.NewPublisher(store, snapshot.PublisherConfig{
			TTL:    cfg.Snapshot.TTL,
			Logger: logger,
		})
	}

	p.delegate = delegate.New(registry, delegateConfig)

	defs, err := definition.LoadPath(cfg.Path(cfg.Tables))
	if err != nil {
		p.Close()
		return nil, err
	}
	for _, def := range defs {
		if _, err := p.delegate.RegisterTable(def); err != nil {
			p.Close()
			return nil, err
		}
	}

	if publisher := delegateConfig.Publisher; publisher != nil {
		if _, err := publisher.Prune(ctx, p.delegate.TableIDs()); err != nil {
			logger.Warn("failed to prune snapshots", zap.Error(err))
		}
	}

	return p, nil
}

// snapshotStore opens the configured snapshot backend; nil means none.
func (p *project) snapshotStore(ctx context.Context) (snapshot.Store, error) {
	storeConfig := snapshot.Config{
		DefaultTTL: p.config.Snapshot.TTL,
		Prefix:     p.config.Snapshot.Prefix,
	}

	switch p.config.Snapshot.Backend {
	case config.SnapshotMemory:
		store := snapshot.NewMemoryStoreWithConfig(storeConfig, clockwork.NewRealClock())
		p.closers = append(p.closers, store.Close)
		return store, nil
	case config.SnapshotRedis:
		store, err := snapshot.NewRedisStore(ctx, snapshot.RedisConfig{
			Addr:     p.config.Snapshot.Redis.Addr,
			Password: p.config.Snapshot.Redis.Password,
			DB:       p.config.Snapshot.Redis.DB,
			Config:   storeConfig,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", p.config.Snapshot.Redis.Addr, err)
		}
		p.closers = append(p.closers, store.Close)
		return store, nil
	default:
		return nil, nil
	}
}

// Close releases the snapshot backend and flushes the logger
func (p *project) Close() {
	for _, closeFn := range p.closers {
		_ = closeFn()
	}
	_ = p.logger.Sync()
}
