// Package main is the entry point for the deathrun-power CLI.
package main

import (
	"os"

	"deathrun-power/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
