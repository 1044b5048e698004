// Package main - bullfinctl CLI
//
// Usage:
//
//	go run ./cmd/bullfinctl serve
//	go run ./cmd/bullfinctl ingest holdings.csv
package main

import (
	"os"

	"github.com/darshanpatil2511/BullFin-AI/cmd/bullfinctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
