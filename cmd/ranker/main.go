// Package main provides the entry point for the ranker CLI.
package main

import (
	"os"

	"github.com/mwmbl/ranker/cmd/ranker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
