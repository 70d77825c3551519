// Package main is the entry point for the kektorgraph CLI.
//
// Usage:
//
//	kektorgraph [flags] <command> [args]
//
// Commands:
//
//	serve      - Run the HTTP service
//	import     - Upload a CSV file of relationships
//	stats      - Show graph statistics
//	neighbors  - List the relationships around an entity
//	paths      - Find paths between two entities
//	search     - List relationships with a label
//	export     - Download the graph as JSON
package main

import (
	"fmt"
	"os"

	"github.com/sanonone/kektorgraph/cmd/kektorgraph/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
