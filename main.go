// Package main is the entry point for the frostcheck CLI.
package main

import "frostcheck.dev/pkg/frostcheck/cmd"

func main() {
	cmd.Execute()
}
