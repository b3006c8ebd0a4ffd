package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sih3rron/boardcall/internal/summarize"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <board-id>",
		Short: "Summarize a board and match it against the category catalog",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze,
	}

	cmd.Flags().IntP("max-items", "m", summarize.DefaultMaxItems, "Summary size bound")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	maxItems, _ := cmd.Flags().GetInt("max-items")

	cfg := loadConfig()
	logger := newLogger(cfg)
	gw := newGateway(cfg, logger)

	texts, err := gw.BoardTexts(cmd.Context(), args[0])
	if err != nil {
		exitErr("fetch board", err)
	}
	summary, analysis := gw.Analyze(texts, maxItems)

	out := map[string]any{
		"summary":  summary.Summary,
		"stats":    summary.Stats,
		"analysis": analysis,
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
