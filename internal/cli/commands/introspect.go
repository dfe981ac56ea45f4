package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/gridmeta/internal/cli/ui"
	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/pathinfo"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

var introspectFormat string

// NewIntrospectCommand creates the introspect command group
func NewIntrospectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Explore the metadata and column paths",
		Long: `Explore the service metadata behind the configured tables.

Lists entity types, shows the properties and navigations of one type, and
resolves the column paths of a table hop by hop.`,
		Example: `  # List entity types
  gridmeta introspect entities

  # Show one entity type
  gridmeta introspect entity Sales.Order

  # Resolve the column paths of a table
  gridmeta introspect paths orders --format json`,
	}

	cmd.PersistentFlags().StringVarP(&introspectFormat, "format", "f", formatTable, "Output format: table or json")

	cmd.AddCommand(newIntrospectEntitiesCommand())
	cmd.AddCommand(newIntrospectEntityCommand())
	cmd.AddCommand(newIntrospectPathsCommand())
	return cmd
}

func newIntrospectEntitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List entity types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(introspectFormat); err != nil {
				return err
			}
			p, err := loadProject(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			type entitySummary struct {
				Name        string   `json:"name"`
				EntitySet   string   `json:"entitySet,omitempty"`
				Keys        []string `json:"keys"`
				Properties  int      `json:"properties"`
				Navigations int      `json:"navigations"`
			}

			var summaries []entitySummary
			for _, name := range p.registry.EntityTypeNames() {
				et, _ := p.registry.EntityType(name)
				summaries = append(summaries, entitySummary{
					Name:        name,
					EntitySet:   p.registry.EntitySetPath("/" + name),
					Keys:        et.Keys,
					Properties:  len(et.Properties),
					Navigations: len(et.NavigationProperties),
				})
			}

			out := cmd.OutOrStdout()
			if introspectFormat == formatJSON {
				return writeJSON(out, summaries)
			}
			table := ui.NewTable(out, []string{"Entity type", "Entity set", "Keys", "Properties", "Navigations"}, &ui.TableOptions{NoColor: noColor})
			for _, s := range summaries {
				table.AddRow(s.Name, s.EntitySet, strings.Join(s.Keys, ", "), fmt.Sprint(s.Properties), fmt.Sprint(s.Navigations))
			}
			table.Render()
			return nil
		},
	}
}

func newIntrospectEntityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entity <name>",
		Short: "Show the properties and navigations of an entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(introspectFormat); err != nil {
				return err
			}
			p, err := loadProject(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			et, ok := p.registry.EntityType(args[0])
			if !ok {
				suggestions := ui.FindSimilar(args[0], p.registry.EntityTypeNames(), nil)
				fmt.Fprint(cmd.ErrOrStderr(), ui.EntityNotFoundError(args[0], suggestions, noColor))
				return fmt.Errorf("entity type %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			if introspectFormat == formatJSON {
				return writeJSON(out, et)
			}
			writeEntity(cmd, et)
			return nil
		},
	}
}

func writeEntity(cmd *cobra.Command, et *metamodel.EntityType) {
	out := cmd.OutOrStdout()
	ui.Header(out, et.Name, noColor)

	props := ui.NewTable(out, []string{"Property", "Type", "Label", "Key", "Annotations"}, &ui.TableOptions{NoColor: noColor})
	for _, prop := range et.Properties {
		key := ""
		if et.IsKey(prop.Name) {
			key = "yes"
		}
		props.AddRow(prop.Name, prop.Type, prop.Label, key, propertyAnnotations(prop))
	}
	props.Render()

	if len(et.NavigationProperties) > 0 {
		fmt.Fprintln(out)
		navs := ui.NewTable(out, []string{"Navigation", "Target", "Multiplicity"}, &ui.TableOptions{NoColor: noColor})
		for _, nav := range et.NavigationProperties {
			multiplicity := "1"
			if nav.IsCollection {
				multiplicity = "*"
			}
			navs.AddRow(nav.Name, nav.TargetType, multiplicity)
		}
		navs.Render()
	}
}

func propertyAnnotations(prop metamodel.Property) string {
	var parts []string
	add := func(term, value string) {
		if value != "" {
			parts = append(parts, term+"="+value)
		}
	}
	add("Text", prop.Text)
	add("Unit", prop.Unit)
	add("ISOCurrency", prop.ISOCurrency)
	add("Timezone", prop.Timezone)
	if prop.Hidden {
		parts = append(parts, "Hidden")
	}
	return strings.Join(parts, " ")
}

// resolvedPath is the introspection view of one column path
type resolvedPath struct {
	Column       string   `json:"column"`
	Path         string   `json:"path"`
	Resolved     bool     `json:"resolved"`
	Error        string   `json:"error,omitempty"`
	Hops         []string `json:"hops,omitempty"`
	TargetEntity string   `json:"targetEntity,omitempty"`
	Target       string   `json:"target,omitempty"`
}

func newIntrospectPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <table>",
		Short: "Resolve the column paths of a table",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeTableIDs(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(introspectFormat); err != nil {
				return err
			}
			p, err := loadProject(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			id := args[0]
			info, err := p.delegate.Table(id)
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.TableNotFoundError(id, ui.FindSimilar(id, p.delegate.TableIDs(), nil), noColor))
				return err
			}

			decls, err := p.delegate.Columns(id)
			if err != nil {
				return err
			}

			resolver := pathinfo.NewResolver(p.registry)
			root := pathinfo.RootContext{ContextPath: info.ContextPath}
			var paths []resolvedPath
			for _, decl := range decls {
				col, ok := decl.(*column.AnnotationColumn)
				if !ok {
					continue
				}
				paths = append(paths, resolvePath(resolver, col, root))
			}

			out := cmd.OutOrStdout()
			if introspectFormat == formatJSON {
				return writeJSON(out, paths)
			}
			table := ui.NewTable(out, []string{"Column", "Path", "Hops", "Target"}, &ui.TableOptions{NoColor: noColor})
			for _, rp := range paths {
				target := rp.Target
				if !rp.Resolved {
					target = "✗ " + rp.Error
				}
				table.AddRow(rp.Column, rp.Path, strings.Join(rp.Hops, " → "), target)
			}
			table.Render()
			return nil
		},
	}
}

func resolvePath(resolver *pathinfo.Resolver, col *column.AnnotationColumn, root pathinfo.RootContext) resolvedPath {
	rp := resolvedPath{Column: col.Name, Path: col.TargetPath()}
	resolved, err := resolver.Resolve(col.TargetPath(), root)
	if err != nil {
		rp.Error = err.Error()
		return rp
	}

	rp.Resolved = true
	rp.TargetEntity = resolved.TargetEntityType
	for _, hop := range resolved.NavigationHops {
		name := hop.Name
		if hop.IsCollection {
			name += "[*]"
		}
		rp.Hops = append(rp.Hops, name)
	}
	switch {
	case resolved.TargetProperty != nil:
		rp.Target = resolved.TargetEntityType + "/" + resolved.TargetProperty.Name + " (" + resolved.TargetProperty.Type + ")"
	case resolved.TargetAnnotation != "":
		rp.Target = resolved.TargetEntityType + "/" + resolved.TargetAnnotation
	default:
		rp.Target = resolved.TargetEntityType
	}
	return rp
}
