// Package main provides the alphabeta CLI for evaluating positions,
// choosing moves and playing matches against a UCI engine.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
