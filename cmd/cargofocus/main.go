// Command cargofocus analyzes shipment carbon emissions and previews
// what-if transport scenarios.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/rshade/cargofocus/internal/cli"
)

// Exit codes: 0 success, 1 runtime error, 2 flag/argument validation error.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to exit codes. Split from
// main so tests can call it without os.Exit.
func run() int {
	// A .env in the working directory supplies DATABASE_URL-style
	// variables during local work; absence is not an error, and explicit
	// environment always wins because godotenv never overwrites.
	_ = godotenv.Load()

	root := cli.NewRootCmd(version)
	if err := root.Execute(); err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", usageErr.Reason)
			return exitUsage
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}
	return exitOK
}
