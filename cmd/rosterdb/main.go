// Package main provides the rosterdb CLI application.
// rosterdb manages the lifecycle of the army-roster PostgreSQL
// database: schema creation, rules-data fetch and catalogue population.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
