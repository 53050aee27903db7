package main

import (
	"os"

	"github.com/ledgerpal-dev/ledgerpal/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
