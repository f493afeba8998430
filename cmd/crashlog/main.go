package main

import (
	"os"

	"github.com/leshachaplin/crashlog/cmd/crashlog/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
