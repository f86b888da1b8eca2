// Package main provides the entry point for the semverpop CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/semverpop/cmd/semverpop/commands"
	"github.com/Sumatoshi-tech/semverpop/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
