// Package main is the single-binary entrypoint for EcoSnap.
// One binary: the CLI for logging actions and the local API server.
package main

import "github.com/ecosnap-app/ecosnap/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
