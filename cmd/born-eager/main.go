// Package main provides the born-eager CLI, a driver for inspecting tensor
// handles over a simulated cluster of devices.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
