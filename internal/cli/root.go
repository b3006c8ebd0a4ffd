// Package cli implements the boardcall CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sih3rron/boardcall/internal/cache"
	"github.com/sih3rron/boardcall/internal/config"
	"github.com/sih3rron/boardcall/internal/gateway"
	"github.com/sih3rron/boardcall/internal/gong"
	"github.com/sih3rron/boardcall/internal/miro"
	"github.com/sih3rron/boardcall/internal/taxonomy"
)

var offlineFlag bool

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "boardcall",
	Short: "Board analysis and call lookup over MCP",
	Long:  "Analyzes whiteboard content against a category catalog, recommends templates, and finds recorded calls. Runs as an MCP server or as one-shot commands.",
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&offlineFlag, "offline", false, "Serve bundled fixtures instead of the live platforms")
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitErr("load config", err)
	}
	if offlineFlag {
		cfg.Offline = true
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	// stdout carries command output and the MCP stream; logs go to stderr.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadTaxonomy(cfg config.Config) *taxonomy.Taxonomy {
	if cfg.TaxonomyPath != "" {
		tax, err := taxonomy.Load(cfg.TaxonomyPath)
		if err != nil {
			exitErr("load taxonomy", err)
		}
		return tax
	}
	tax, err := taxonomy.Default()
	if err != nil {
		exitErr("load taxonomy", err)
	}
	return tax
}

// newGateway wires sources from config. Each platform falls back to
// fixtures independently when its credentials are missing.
func newGateway(cfg config.Config, logger *slog.Logger) *gateway.Gateway {
	maxDelay := time.Duration(cfg.Retry.MaxDelaySeconds) * time.Second

	var boards gateway.BoardSource = gateway.OfflineBoards{}
	var calls gateway.CallSource = gateway.OfflineCalls{}

	if !cfg.Offline {
		if token := cfg.MiroToken(); token != "" {
			client := miro.NewClient(cfg.Miro.BaseURL, token)
			client.SetRetry(cfg.Retry.MaxAttempts, maxDelay)
			boards = client
		} else {
			logger.Warn("no whiteboard token configured, serving board fixtures",
				"env", cfg.Miro.TokenEnv)
		}

		if key, secret := cfg.GongCredentials(); key != "" && secret != "" {
			pages, err := cache.Open(cfg.Cache.Path,
				time.Duration(cfg.Cache.TTLSeconds)*time.Second, cfg.Cache.MaxEntries)
			if err != nil {
				logger.Warn("page cache unavailable", "error", err)
			}
			client := gong.NewClient(cfg.Gong.BaseURL, key, secret, pages)
			client.SetRetry(cfg.Retry.MaxAttempts, maxDelay)
			calls = client
		} else {
			logger.Warn("no call-platform credentials configured, serving call fixtures",
				"env", cfg.Gong.AccessKeyEnv)
		}
	}

	return gateway.New(boards, calls, loadTaxonomy(cfg), logger)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
