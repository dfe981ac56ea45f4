package propinfo

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/metrics"
	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/filter"
	"github.com/conduit-lang/gridmeta/internal/table/pathinfo"
	"github.com/conduit-lang/gridmeta/internal/table/width"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// LocalizeFunc resolves a label text. It must not fail: on a miss it returns
// the fallback (when a non-empty string) or an empty string.
type LocalizeFunc func(text string, fallback any) string

// identity returns plain texts unchanged.
func identity(text string, _ any) string {
	return text
}

// Config configures a Builder
type Config struct {
	Analytics filter.Analytics
	Width     *width.Config
	Localize  LocalizeFunc
	Logger    *zap.Logger
}

// DefaultConfig returns the default builder configuration
func DefaultConfig() *Config {
	return &Config{
		Width:    width.DefaultConfig(),
		Localize: identity,
		Logger:   zap.NewNop(),
	}
}

// Builder derives the PropertyInfo list of a table from its column
// declarations.
type Builder struct {
	store     metamodel.Store
	resolver  *pathinfo.Resolver
	analyzer  *filter.Analyzer
	estimator *width.Estimator
	localize  LocalizeFunc
	logger    *zap.Logger
}

// NewBuilder creates a builder with the default configuration
func NewBuilder(store metamodel.Store) *Builder {
	return NewBuilderWithConfig(store, DefaultConfig())
}

// NewBuilderWithConfig creates a builder with a custom configuration
func NewBuilderWithConfig(store metamodel.Store, config *Config) *Builder {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	if config.Width == nil {
		config.Width = defaults.Width
	}
	if config.Localize == nil {
		config.Localize = defaults.Localize
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}

	return &Builder{
		store:     store,
		resolver:  pathinfo.NewResolver(store),
		analyzer:  filter.NewAnalyzer(store, filter.WithAnalytics(config.Analytics), filter.WithLogger(config.Logger)),
		estimator: width.NewEstimatorWithConfig(config.Width),
		localize:  config.Localize,
		logger:    config.Logger,
	}
}

// pass holds the per-derivation context.
type pass struct {
	root     pathinfo.RootContext
	rootInfo *pathinfo.DataModelPathInfo
	tableSet string
}

// Build derives one PropertyInfo per declaration. An unhandled declaration
// kind aborts the pass; unresolvable column paths only degrade that column.
func (b *Builder) Build(decls []column.Declaration, root pathinfo.RootContext) (infos []PropertyInfo, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDerivation(time.Since(start), err)
	}()

	rootInfo, err := b.resolver.ResolveRoot(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve table context %s: %w", root.ContextPath, err)
	}

	p := &pass{root: root, rootInfo: rootInfo, tableSet: rootInfo.TargetEntitySetPath(b.store)}
	if p.tableSet == "" {
		p.tableSet = rootInfo.StartEntitySet
	}

	infos = make([]PropertyInfo, 0, len(decls))
	for _, decl := range decls {
		if column.IsNil(decl) {
			return nil, &column.UnhandledColumnKindError{Kind: nilKindName(decl)}
		}

		var info PropertyInfo
		switch d := decl.(type) {
		case *column.AnnotationColumn:
			info = b.annotationInfo(d, p)
		case *column.SlotColumn:
			info = b.customInfo(&d.CustomColumn)
		case *column.DefaultColumn:
			info = b.customInfo(&d.CustomColumn)
		default:
			return nil, &column.UnhandledColumnKindError{Kind: kindName(decl), Column: decl.ColumnName()}
		}
		infos = append(infos, info)
	}

	resolveLabelCollisions(infos)

	for i, decl := range decls {
		hint := b.estimator.Estimate(b.widthDeclaration(decl, &infos[i], p), decls)
		infos[i].VisualSettings = width.Apply(infos[i].VisualSettings, hint)

		if infos[i].IsComposite() && infos[i].TypeConfig == nil {
			infos[i].TypeConfig = &column.TypeConfig{}
		}
	}

	b.logger.Debug("derived property infos",
		zap.String("context_path", root.ContextPath),
		zap.Int("columns", len(infos)),
		zap.Duration("duration", time.Since(start)))

	return infos, nil
}

// annotationInfo derives the property info of an annotation column.
func (b *Builder) annotationInfo(col *column.AnnotationColumn, p *pass) PropertyInfo {
	target := col.TargetPath()

	resolved, err := b.resolver.Resolve(target, p.root)
	if err != nil {
		metrics.PathResolutionFailures.Inc()
		b.logger.Debug("column path does not resolve",
			zap.String("column", col.Name),
			zap.String("path", target),
			zap.Error(err))
		resolved = nil
	}

	var prop *metamodel.Property
	if resolved != nil {
		prop = resolved.TargetProperty
	}

	info := PropertyInfo{
		Name:             col.Name,
		MetadataPath:     strings.TrimSuffix(p.root.ContextPath, "/") + "/" + target,
		Group:            col.Group,
		GroupLabel:       b.localize(col.GroupLabel, nil),
		Label:            b.label(col, prop, resolved == nil),
		Tooltip:          b.localize(col.Tooltip, nil),
		Visible:          col.Availability != column.AvailabilityHidden && (resolved == nil || !resolved.IsComplexType()),
		VisualSettings:   col.VisualSettings.Clone(),
		Aggregatable:     col.Aggregation.Aggregatable || (prop != nil && prop.Aggregatable),
		AdditionalLabels: b.localizeAll(col.AdditionalLabels),
	}

	if col.Aggregation.Extension {
		info.Extension = &Extension{
			TechnicallyGroupable:    col.Aggregation.TechnicallyGroupable,
			TechnicallyAggregatable: col.Aggregation.Aggregatable,
		}
	}

	if col.IsComposite() {
		info.PropertyInfos = append([]string(nil), col.PropertyInfos...)
		info.TypeConfig = col.TypeConfig.Clone()
		info.ExportSettings = b.exportSettings(col, info, nil)
		return info
	}

	info.Path = col.RelativePath
	info.TypeConfig = typeConfig(col, prop)
	info.Unit = unitRef(col, prop)
	info.Text, info.TextArrangement = textPair(col, prop)

	filterable := b.analyzer.IsFilterable(col, resolved, p.rootInfo)
	info.Filterable = boolPtr(filterable)
	info.Sortable = boolPtr(b.isSortable(col, resolved, p))
	info.Groupable = boolPtr(prop != nil && prop.Groupable)
	info.Key = boolPtr(b.isKey(resolved))
	info.CaseSensitive = b.store.IsCaseSensitive(b.owningSet(resolved, p))
	if filterable {
		info.MaxConditions = maxConditions(b.store.FilterRestrictionsByPath(p.tableSet), col.RelativePath)
	}
	info.ExportSettings = b.exportSettings(col, info, prop)

	return info
}

// customInfo derives the reduced property info of a slot or default column.
func (b *Builder) customInfo(col *column.CustomColumn) PropertyInfo {
	info := PropertyInfo{
		Name:           col.Name,
		Label:          b.localize(col.Label, nil),
		Tooltip:        b.localize(col.Tooltip, nil),
		Visible:        col.Availability != column.AvailabilityHidden,
		Path:           col.Name,
		VisualSettings: col.VisualSettings.Clone(),
		Sortable:       boolPtr(false),
		Filterable:     boolPtr(false),
	}
	if col.ExportSettings != nil {
		settings := *col.ExportSettings
		settings.Property = append([]string(nil), col.ExportSettings.Property...)
		info.ExportSettings = &settings
	}
	return info
}

// label localizes the declared label, falling back to the metadata label
// and, for unresolved paths, to the raw path.
func (b *Builder) label(col *column.AnnotationColumn, prop *metamodel.Property, unresolved bool) string {
	fallback := ""
	if unresolved {
		fallback = col.TargetPath()
	}
	label := b.localize(col.Label, fallback)
	if label == "" && prop != nil {
		label = b.localize(prop.Label, nil)
	}
	if label == "" {
		label = fallback
	}
	return label
}

func (b *Builder) localizeAll(texts []string) []string {
	if len(texts) == 0 {
		return nil
	}
	localized := make([]string, 0, len(texts))
	for _, text := range texts {
		if l := b.localize(text, nil); l != "" {
			localized = append(localized, l)
		}
	}
	return localized
}

func (b *Builder) isSortable(col *column.AnnotationColumn, resolved *pathinfo.DataModelPathInfo, p *pass) bool {
	if resolved == nil || resolved.TargetProperty == nil {
		return false
	}
	prop := resolved.TargetProperty
	if prop.IsComplex() || prop.Type == metamodel.EdmStream || prop.Type == metamodel.EdmBinary {
		return false
	}
	for _, hop := range filter.RelativeHops(resolved, p.rootInfo) {
		if hop.IsCollection {
			return false
		}
	}
	return b.store.SortRestrictionsByPath(p.tableSet).IsSortable(col.RelativePath)
}

// isKey reports whether the target is a key of a local entity type.
func (b *Builder) isKey(resolved *pathinfo.DataModelPathInfo) bool {
	if resolved == nil || resolved.TargetProperty == nil || len(resolved.NavigationHops) > 0 {
		return false
	}
	node, ok := b.store.GetObject("/" + resolved.TargetEntityType)
	return ok && node.EntityType != nil && node.EntityType.IsKey(resolved.TargetProperty.Name)
}

// owningSet returns the entity set whose filter semantics apply to the target.
func (b *Builder) owningSet(resolved *pathinfo.DataModelPathInfo, p *pass) string {
	if resolved != nil && resolved.IsRelative() {
		if set := resolved.TargetEntitySetPath(b.store); set != "" {
			return set
		}
	}
	return p.tableSet
}

// widthDeclaration returns decl as seen by the width estimator: the unit
// derived from the metadata is attached, field group entries get their
// business data types, and every text the estimator measures is localized.
func (b *Builder) widthDeclaration(decl column.Declaration, info *PropertyInfo, p *pass) column.Declaration {
	col, ok := decl.(*column.AnnotationColumn)
	if !ok || (col.FieldGroup == nil && col.Unit == nil && info.Unit == nil) {
		return decl
	}

	typed := *col
	unit := col.Unit
	if unit == nil {
		unit = info.Unit
	}
	if unit != nil {
		localized := *unit
		if localized.Text != "" {
			localized.Text = b.localize(localized.Text, nil)
		}
		typed.Unit = &localized
	}
	if col.FieldGroup == nil {
		return &typed
	}

	group := *col.FieldGroup
	group.Fields = append([]column.FieldGroupField(nil), col.FieldGroup.Fields...)
	for i := range group.Fields {
		field := &group.Fields[i]
		field.Label = b.localize(field.Label, nil)
		if field.Kind != column.FieldData || field.Type != "" || field.Path == "" {
			continue
		}
		resolved, err := b.resolver.Resolve(field.Path, p.root)
		if err == nil && resolved.TargetProperty != nil {
			field.Type = resolved.TargetProperty.Type
		}
	}
	typed.FieldGroup = &group
	return &typed
}

// typeConfig passes the declared type configuration through for filterable
// type families and derives one from the metadata when none is declared.
func typeConfig(col *column.AnnotationColumn, prop *metamodel.Property) *column.TypeConfig {
	if prop == nil || !metamodel.IsFilterableType(prop.Type) {
		return &column.TypeConfig{}
	}
	if col.TypeConfig != nil {
		return col.TypeConfig.Clone()
	}
	return &column.TypeConfig{
		ClassName: prop.Type,
		Constraints: column.Constraints{
			MaxLength: prop.MaxLength,
			Precision: prop.Precision,
			Scale:     prop.Scale,
			Nullable:  prop.Nullable,
		},
	}
}

// unitRef returns the declared unit, or the unit, currency or timezone
// annotated on the property.
func unitRef(col *column.AnnotationColumn, prop *metamodel.Property) *column.UnitRef {
	if col.Unit != nil {
		unit := *col.Unit
		return &unit
	}
	if prop == nil {
		return nil
	}
	prefix := navigationPrefix(col.RelativePath)
	switch {
	case prop.ISOCurrency != "":
		return &column.UnitRef{Path: prefix + prop.ISOCurrency, Kind: column.UnitCurrency}
	case prop.Unit != "":
		return &column.UnitRef{Path: prefix + prop.Unit, Kind: column.UnitQuantity}
	case prop.Timezone != "":
		return &column.UnitRef{Path: prefix + prop.Timezone, Kind: column.UnitTimezone}
	}
	return nil
}

// textPair returns the description property and its arrangement.
func textPair(col *column.AnnotationColumn, prop *metamodel.Property) (string, column.TextArrangementMode) {
	if col.TextArrangement != nil {
		return col.TextArrangement.TextProperty, col.TextArrangement.Mode
	}
	if prop == nil || prop.Text == "" {
		return "", ""
	}
	mode := column.TextArrangementMode(prop.TextArrangement)
	if mode == "" {
		mode = column.TextFirst
	}
	return navigationPrefix(col.RelativePath) + prop.Text, mode
}

// maxConditions limits single-value and single-range filter expressions to one condition.
func maxConditions(restrictions metamodel.FilterRestrictions, path string) int {
	for _, expr := range restrictions.FilterAllowedExpressions[path] {
		if expr == "SingleValue" || expr == "SingleRange" {
			return 1
		}
	}
	return -1
}

// exportSettings returns the declared export settings or derives them.
func (b *Builder) exportSettings(col *column.AnnotationColumn, info PropertyInfo, prop *metamodel.Property) *column.ExportSettings {
	if col.ExportSettings != nil {
		settings := *col.ExportSettings
		settings.Property = append([]string(nil), col.ExportSettings.Property...)
		if settings.Label == "" {
			settings.Label = info.Label
		}
		return &settings
	}

	settings := &column.ExportSettings{Label: info.Label}
	if info.IsComposite() {
		settings.Property = append([]string(nil), info.PropertyInfos...)
		settings.Type = "String"
		return settings
	}

	settings.Property = []string{info.Path}
	if prop != nil {
		settings.Type = exportType(prop.Type)
		settings.Scale = prop.Scale
	}
	if info.Unit != nil && !info.Unit.IsTextual() {
		settings.Unit = info.Unit.Path
		if info.Unit.Kind == column.UnitCurrency {
			settings.Type = "Currency"
		}
	}
	if info.Text != "" {
		settings.Property = append(settings.Property, info.Text)
		settings.Template = "{0} ({1})"
	}
	return settings
}

func exportType(edmType string) string {
	switch edmType {
	case metamodel.EdmBoolean:
		return "Boolean"
	case metamodel.EdmDate:
		return "Date"
	case metamodel.EdmDateTimeOffset:
		return "DateTime"
	case metamodel.EdmTimeOfDay:
		return "Time"
	}
	if metamodel.IsNumericType(edmType) {
		return "Number"
	}
	return "String"
}

// navigationPrefix returns the part of a path up to and including its last "/".
func navigationPrefix(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i+1]
	}
	return ""
}

func nilKindName(decl column.Declaration) string {
	if decl == nil {
		return "nil"
	}
	return fmt.Sprintf("nil %T", decl)
}

func kindName(decl column.Declaration) string {
	if name := decl.Kind().String(); name != "unknown" {
		return fmt.Sprintf("%s (%T)", name, decl)
	}
	return fmt.Sprintf("%T", decl)
}
