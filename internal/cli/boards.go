package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List visible boards",
		Run:   runBoards,
	}
	RootCmd.AddCommand(cmd)
}

func runBoards(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	gw := newGateway(cfg, logger)

	boards, err := gw.ListBoards(cmd.Context())
	if err != nil {
		exitErr("list boards", err)
	}

	b, _ := json.MarshalIndent(boards, "", "  ")
	fmt.Println(string(b))
}
