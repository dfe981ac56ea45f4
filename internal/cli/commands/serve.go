package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/cli/ui"
	"github.com/conduit-lang/gridmeta/internal/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the configured tables over HTTP",
		Long: `Host the configured tables over a JSON HTTP API.

Grid controls fetch property infos from /tables/{id}/properties and report
personalization changes (visible columns, added and removed columns) back to
the server. Prometheus metrics are exposed on /metrics.`,
		Example: `  # Serve on the configured address
  gridmeta serve

  # Override the port
  gridmeta serve --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := loadProject(ctx)
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), noColor))
				return err
			}
			defer p.Close()

			if cmd.Flags().Changed("host") {
				p.config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				p.config.Server.Port = port
			}

			return serve(ctx, p)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")
	return cmd
}

func serve(ctx context.Context, p *project) error {
	cfg := server.DefaultConfig()
	cfg.Address = p.config.Address()
	cfg.CORSOrigins = p.config.Server.CORSOrigins
	cfg.Logger = p.logger

	s, err := server.New(p.delegate, cfg)
	if err != nil {
		return err
	}

	p.logger.Info("serving tables",
		zap.Strings("tables", p.delegate.TableIDs()),
		zap.String("snapshot_backend", p.config.Snapshot.Backend))
	return s.ListenAndServe(ctx)
}
