package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sih3rron/boardcall/internal/mcp"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Run:   runServe,
	}
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	gw := newGateway(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TaxonomyPath != "" {
		go func() {
			err := gw.WatchTaxonomy(ctx, cfg.TaxonomyPath)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("taxonomy watch stopped", "error", err)
			}
		}()
	}

	server := mcp.NewServer("boardcall", Version, gw.Tools(), logger)
	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		exitErr("serve", err)
	}
}
