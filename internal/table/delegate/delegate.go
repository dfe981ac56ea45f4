// Package delegate hosts tables for grid controls: it owns each table's
// column declarations, visibility and draft indicator state, and serves
// derived property infos through the derivation cache.
package delegate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/snapshot"
	"github.com/conduit-lang/gridmeta/internal/table/cache"
	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/definition"
	"github.com/conduit-lang/gridmeta/internal/table/draft"
	"github.com/conduit-lang/gridmeta/internal/table/filter"
	"github.com/conduit-lang/gridmeta/internal/table/pathinfo"
	"github.com/conduit-lang/gridmeta/internal/table/propinfo"
	"github.com/conduit-lang/gridmeta/internal/table/width"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// Config configures a Delegate
type Config struct {
	Width     *width.Config
	Localize  propinfo.LocalizeFunc
	Logger    *zap.Logger
	Publisher *snapshot.Publisher // Optional
}

// DefaultConfig returns the default delegate configuration
func DefaultConfig() *Config {
	return &Config{
		Width:  width.DefaultConfig(),
		Logger: zap.NewNop(),
	}
}

// TableInfo summarizes a registered table
type TableInfo struct {
	ID          string   `json:"id"`
	ContextPath string   `json:"contextPath"`
	ReadOnly    bool     `json:"readOnly"`
	Columns     []string `json:"columns"`
	Visible     []string `json:"visibleColumns"`
	StatePath   string   `json:"statePath"`
}

// table is the mutable state of one registered table.
type table struct {
	mu          sync.RWMutex
	id          string
	contextPath string
	readOnly    bool
	analytics   filter.Analytics
	columns     []column.Declaration
	visible     []string
	draft       *draft.State
}

func (t *table) info() TableInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.ColumnName()
	}
	return TableInfo{
		ID:          t.id,
		ContextPath: t.contextPath,
		ReadOnly:    t.readOnly,
		Columns:     names,
		Visible:     append([]string(nil), t.visible...),
		StatePath:   t.draft.Path(),
	}
}

// view returns a consistent copy of the inputs of a derivation.
func (t *table) view() (contextPath string, columns []column.Declaration, visible []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contextPath, append([]column.Declaration(nil), t.columns...), append([]string(nil), t.visible...)
}

// Delegate manages the tables hosted for grid controls.
type Delegate struct {
	store    metamodel.Store
	resolver *pathinfo.Resolver
	cache    *cache.DerivationCache
	selector *draft.Selector
	config   *Config
	logger   *zap.Logger

	mu     sync.RWMutex
	tables map[string]*table
}

// New creates a delegate over the metadata store
func New(store metamodel.Store, config *Config) *Delegate {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Width == nil {
		config.Width = width.DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	d := &Delegate{
		store:    store,
		resolver: pathinfo.NewResolver(store),
		cache:    cache.New(),
		selector: draft.NewSelector(config.Logger),
		config:   config,
		logger:   config.Logger,
		tables:   make(map[string]*table),
	}

	if config.Publisher != nil {
		d.cache.OnInvalidate(func(tableID string) {
			if err := config.Publisher.Drop(context.Background(), tableID); err != nil {
				d.logger.Warn("failed to drop snapshot", zap.String("table", tableID), zap.Error(err))
			}
		})
	}

	return d
}

// RegisterTable registers a table definition and returns its identity. A
// definition without an ID gets a generated one.
func (d *Delegate) RegisterTable(def *definition.Definition) (string, error) {
	if _, err := d.resolver.ResolveRoot(pathinfo.RootContext{ContextPath: def.ContextPath}); err != nil {
		return "", fmt.Errorf("table %s: %w", def.ID, err)
	}

	id := def.ID
	if id == "" {
		id = uuid.NewString()
	}

	t := &table{
		id:          id,
		contextPath: def.ContextPath,
		readOnly:    def.ReadOnly,
		analytics:   def.Analytics,
		columns:     append([]column.Declaration(nil), def.Columns...),
		visible:     append([]string(nil), def.Visible...),
		draft:       draft.NewState(statePath(id)),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tables[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrTableExists, id)
	}
	d.tables[id] = t

	d.logger.Info("registered table",
		zap.String("table", id),
		zap.String("context_path", def.ContextPath),
		zap.Int("columns", len(def.Columns)))
	return id, nil
}

// Tables returns all registered tables ordered by identity
func (d *Delegate) Tables() []TableInfo {
	d.mu.RLock()
	tables := make([]*table, 0, len(d.tables))
	for _, t := range d.tables {
		tables = append(tables, t)
	}
	d.mu.RUnlock()

	infos := make([]TableInfo, len(tables))
	for i, t := range tables {
		infos[i] = t.info()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Table returns a registered table
func (d *Delegate) Table(id string) (TableInfo, error) {
	t, err := d.table(id)
	if err != nil {
		return TableInfo{}, err
	}
	return t.info(), nil
}

// TableIDs returns the identities of all registered tables
func (d *Delegate) TableIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.tables))
	for id := range d.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Columns returns the current column declarations of a table
func (d *Delegate) Columns(id string) ([]column.Declaration, error) {
	t, err := d.table(id)
	if err != nil {
		return nil, err
	}
	_, columns, _ := t.view()
	return columns, nil
}

func (d *Delegate) table(id string) (*table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[id]
	if !ok {
		return nil, tableNotFound(id)
	}
	return t, nil
}

// FetchPropertyInfos returns the derived property infos of a table. The
// result is shared with other callers and must not be modified. A fresh
// derivation is published only once it is cached, so a pass overtaken by an
// invalidation never reaches the snapshot store.
func (d *Delegate) FetchPropertyInfos(ctx context.Context, id string) ([]propinfo.PropertyInfo, error) {
	t, err := d.table(id)
	if err != nil {
		return nil, err
	}

	var snap *snapshot.Snapshot
	return d.cache.GetOrComputeStored(id, func() ([]propinfo.PropertyInfo, error) {
		infos, derived, err := d.derive(t)
		snap = derived
		return infos, err
	}, func([]propinfo.PropertyInfo) {
		d.publish(ctx, snap)
	})
}

// derive runs a full derivation pass for t.
func (d *Delegate) derive(t *table) ([]propinfo.PropertyInfo, *snapshot.Snapshot, error) {
	contextPath, columns, visible := t.view()

	widthConfig := *d.config.Width
	widthConfig.ReadOnly = t.readOnly

	builder := propinfo.NewBuilderWithConfig(d.store, &propinfo.Config{
		Analytics: t.analytics,
		Width:     &widthConfig,
		Localize:  d.config.Localize,
		Logger:    d.logger.With(zap.String("table", t.id)),
	})
	infos, err := builder.Build(columns, pathinfo.RootContext{ContextPath: contextPath})
	if err != nil {
		return nil, nil, fmt.Errorf("table %s: %w", t.id, err)
	}

	indicator, _ := d.selector.Select(t.draft, visible, columns, "")

	snap := &snapshot.Snapshot{
		TableID:        t.id,
		ContextPath:    contextPath,
		DraftIndicator: indicator,
		Properties:     infos,
	}
	return infos, snap, nil
}

func (d *Delegate) publish(ctx context.Context, snap *snapshot.Snapshot) {
	if d.config.Publisher == nil || snap == nil {
		return
	}
	if err := d.config.Publisher.Publish(ctx, snap); err != nil {
		d.logger.Warn("failed to publish snapshot", zap.String("table", snap.TableID), zap.Error(err))
	}
}

// Invalidate drops the cached derivation of a table
func (d *Delegate) Invalidate(id string) error {
	if _, err := d.table(id); err != nil {
		return err
	}
	d.cache.Invalidate(id)
	return nil
}

// SetVisibleColumns replaces the visible columns of a table and runs the
// draft indicator selection. It returns the draft indicator column, if any.
func (d *Delegate) SetVisibleColumns(id string, names []string) (string, bool, error) {
	t, err := d.table(id)
	if err != nil {
		return "", false, err
	}

	t.mu.Lock()
	for _, name := range names {
		if _, ok := column.Find(t.columns, name); !ok {
			t.mu.Unlock()
			return "", false, columnNotFound(id, name)
		}
	}
	t.visible = append([]string(nil), names...)
	columns := append([]column.Declaration(nil), t.columns...)
	t.mu.Unlock()

	name, ok := d.selector.Select(t.draft, names, columns, "")
	return name, ok, nil
}

// AddColumn adds a declaration to a table as its last visible column. The
// draft indicator selection runs before the column becomes visible, so an
// eligible added column is recorded when no visible column qualifies.
func (d *Delegate) AddColumn(id string, decl column.Declaration) error {
	if column.IsNil(decl) {
		return &column.UnhandledColumnKindError{Kind: "nil"}
	}
	t, err := d.table(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if _, exists := column.Find(t.columns, decl.ColumnName()); exists {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s in table %s", ErrColumnExists, decl.ColumnName(), id)
	}
	t.columns = append(append([]column.Declaration(nil), t.columns...), decl)
	visible := append([]string(nil), t.visible...)
	columns := append([]column.Declaration(nil), t.columns...)
	t.visible = append(visible, decl.ColumnName())
	t.mu.Unlock()

	d.selector.Select(t.draft, visible, columns, decl.ColumnName())
	d.cache.Invalidate(id)
	return nil
}

// RemoveColumn removes a declaration from a table.
func (d *Delegate) RemoveColumn(id, name string) error {
	t, err := d.table(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	columns := make([]column.Declaration, 0, len(t.columns))
	for _, c := range t.columns {
		if c.ColumnName() != name {
			columns = append(columns, c)
		}
	}
	if len(columns) == len(t.columns) {
		t.mu.Unlock()
		return columnNotFound(id, name)
	}
	visible := make([]string, 0, len(t.visible))
	for _, v := range t.visible {
		if v != name {
			visible = append(visible, v)
		}
	}
	t.columns = columns
	t.visible = visible
	t.mu.Unlock()

	d.cache.Invalidate(id)
	return nil
}

// SetContextPath rebinds a table to another entity set or navigation path.
func (d *Delegate) SetContextPath(id, contextPath string) error {
	t, err := d.table(id)
	if err != nil {
		return err
	}
	if _, err := d.resolver.ResolveRoot(pathinfo.RootContext{ContextPath: contextPath}); err != nil {
		return fmt.Errorf("table %s: %w", id, err)
	}

	t.mu.Lock()
	t.contextPath = contextPath
	t.mu.Unlock()

	d.cache.Invalidate(id)
	return nil
}

// Rebind binds the table to a fresh internal state path, resetting its
// draft indicator assignment. The cached derivation is dropped so the next
// fetch assigns the indicator again. It returns the new state path.
func (d *Delegate) Rebind(id string) (string, error) {
	t, err := d.table(id)
	if err != nil {
		return "", err
	}
	path := statePath(id)
	t.draft.Rebind(path)
	d.cache.Invalidate(id)
	return path, nil
}

// DraftIndicatorColumn returns the column assigned the draft indicator
func (d *Delegate) DraftIndicatorColumn(id string) (string, bool, error) {
	t, err := d.table(id)
	if err != nil {
		return "", false, err
	}
	name, ok := t.draft.Assignment()
	return name, ok, nil
}

func statePath(id string) string {
	return "/$internal/" + id + "/" + uuid.NewString()
}
