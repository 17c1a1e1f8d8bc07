// Package main is the entry point for the experiment-runner CLI.
package main

import (
	"github.com/hibernatus-hacker/bardo-sub002/cmd"
)

func main() {
	cmd.Execute()
}
