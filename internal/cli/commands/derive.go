package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/gridmeta/internal/cli/ui"
	"github.com/conduit-lang/gridmeta/internal/table/delegate"
)

// NewDeriveCommand creates the derive command
func NewDeriveCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "derive [table...]",
		Short: "Derive the property infos of tables",
		Long: `Derive the property infos of the configured tables.

Runs a full derivation pass for each table: label resolution, filterability,
sortability, units, export settings and width hints. Without arguments every
table in the configured definitions is derived.`,
		Example: `  # Derive all tables
  gridmeta derive

  # Derive one table as JSON
  gridmeta derive orders --format json`,
		ValidArgsFunction: completeTableIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return runDerive(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	return cmd
}

func runDerive(cmd *cobra.Command, args []string, format string) error {
	p, err := loadProject(cmd.Context())
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), noColor))
		return err
	}
	defer p.Close()

	ids := args
	if len(ids) == 0 {
		ids = p.delegate.TableIDs()
	}

	out := cmd.OutOrStdout()
	derived := make([]derivedTable, 0, len(ids))
	for _, id := range ids {
		info, err := p.delegate.Table(id)
		if errors.Is(err, delegate.ErrTableNotFound) {
			fmt.Fprint(cmd.ErrOrStderr(), ui.TableNotFoundError(id, ui.FindSimilar(id, p.delegate.TableIDs(), nil), noColor))
			return err
		}
		if err != nil {
			return err
		}

		infos, err := p.delegate.FetchPropertyInfos(cmd.Context(), id)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), ui.DerivationError(id, err, noColor))
			return err
		}
		indicator, _, err := p.delegate.DraftIndicatorColumn(id)
		if err != nil {
			return err
		}

		d := derivedTable{Table: id, ContextPath: info.ContextPath, DraftIndicator: indicator, Properties: infos}
		if format == formatTable {
			writeDerivedTable(out, info, d, noColor)
		}
		derived = append(derived, d)
	}

	if format == formatJSON {
		return writeJSON(out, derived)
	}
	return nil
}
