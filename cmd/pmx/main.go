package main

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/pmx/internal/cli"
	"github.com/rileyhilliard/pmx/internal/messages"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A broken message template is a build defect; catch it before any
	// command can hit it.
	if err := messages.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "pmx: message catalog: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
