// Package main provides the crops CLI.
package main

import "github.com/mesh-intelligence/crops/internal/cli"

func main() {
	cli.Execute()
}
