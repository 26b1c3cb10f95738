// Package main is the entry point for the groceryctl binary.
package main

import (
	"os"

	cli "grocery-graph/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
