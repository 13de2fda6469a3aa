// Package main is the entry point for the ask CLI, which answers one
// analytical question against the dataset without starting the web server.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}
