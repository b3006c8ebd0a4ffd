package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "calls <customer>",
		Short: "Find recorded calls for a customer",
		Args:  cobra.ExactArgs(1),
		Run:   runCalls,
	}

	cmd.Flags().String("from", "", "Earliest call date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest call date (YYYY-MM-DD)")

	RootCmd.AddCommand(cmd)
}

func runCalls(cmd *cobra.Command, args []string) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	from, err := parseDateFlag(fromStr)
	if err != nil {
		exitErr("parse --from", err)
	}
	to, err := parseDateFlag(toStr)
	if err != nil {
		exitErr("parse --to", err)
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	gw := newGateway(cfg, logger)

	matches, err := gw.FindCalls(cmd.Context(), args[0], from, to)
	if err != nil {
		exitErr("find calls", err)
	}

	if len(matches) == 0 {
		fmt.Println("No calls matched.")
		return
	}
	b, _ := json.MarshalIndent(matches, "", "  ")
	fmt.Println(string(b))
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
