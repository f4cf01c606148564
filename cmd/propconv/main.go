// Package main provides the entry point for the propconv CLI tool.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/Sumatoshi-tech/propconv/cmd/propconv/commands"
	"github.com/Sumatoshi-tech/propconv/pkg/version"
)

func main() {
	version.Resolve()

	// PROPCONV_* settings may come from a local .env file.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		os.Exit(1)
	}

	err = commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
