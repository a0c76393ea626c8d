// Package main is the entry point for the Flight CLI application.
package main

import (
	"flightbridge/cli/cmd"
)

func main() {
	cmd.Execute()
}
