package main

import (
	"os"

	"github.com/sih3rron/boardcall/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
