// Package main provides the entry point for the Maxwell 3D engine
// emulator.
//
// For the full CLI, use: go run ./cmd/maxwell3d
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("Maxwell 3D command-processing engine emulator")
	fmt.Println("")
	fmt.Println("Usage: maxwell3d [options] <commands.txt>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -v         Trace every command and batch event")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/maxwell3d' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/maxwell3d' instead.")
	}
}
