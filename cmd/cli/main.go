// Package main is the entry point for the gridpay CLI.
// The CLI is the operator terminal tool for interacting with the gridpay API.
package main

import (
	"os"

	"gridpay/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
