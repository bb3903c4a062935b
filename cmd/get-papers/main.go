// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers CLI. It searches PubMed,
// flags authors with pharmaceutical or biotech affiliations, and writes the
// results as CSV or to the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
