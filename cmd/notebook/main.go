// Package main provides the notebook CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/notebook/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
