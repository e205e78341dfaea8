package main

// Default limits for CLI commands.
const (
	DefaultRunsLimit = 20
	DefaultPattern   = "*.json"
)

// Catalog names accepted on the command line.
var catalogArgs = []string{"service", "pet"}
