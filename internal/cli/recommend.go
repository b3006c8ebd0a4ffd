package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sih3rron/boardcall/internal/recommend"
	"github.com/sih3rron/boardcall/internal/summarize"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recommend <board-id>",
		Short: "Recommend templates for a board",
		Args:  cobra.ExactArgs(1),
		Run:   runRecommend,
	}

	cmd.Flags().IntP("max", "m", recommend.DefaultMax, "Result cap")

	RootCmd.AddCommand(cmd)
}

func runRecommend(cmd *cobra.Command, args []string) {
	max, _ := cmd.Flags().GetInt("max")

	cfg := loadConfig()
	logger := newLogger(cfg)
	gw := newGateway(cfg, logger)

	texts, err := gw.BoardTexts(cmd.Context(), args[0])
	if err != nil {
		exitErr("fetch board", err)
	}

	tax := gw.Taxonomy()
	_, analysis := gw.Analyze(texts, summarize.DefaultMaxItems)
	recs := recommend.Templates(tax, analysis.Categories, analysis.Keywords, max)

	out := map[string]any{
		"context":         analysis.Context,
		"recommendations": recs,
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
