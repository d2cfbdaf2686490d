package main

import (
	"fmt"
	"os"

	"github.com/TimelordUK/cpg/internal/cli"
)

// Build variables set by ldflags
var version = "dev"

func main() {
	cmd := cli.NewRootCommand(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
