// Package main is the entry point for the boardhub CLI binary.
package main

import (
	"os"

	cli "boardhub/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
