// Package main provides a banner entry point for the repository root.
// VR4300Sim is a cycle-accurate VR4300 pipeline simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/vr4300sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("VR4300Sim - VR4300 pipeline simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: vr4300sim [options] <image.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to a JSON configuration file")
	fmt.Println("  -cached    Route data accesses through the Akita-backed L1 cache model")
	fmt.Println("  -cycles    Maximum number of pipeline ticks to run")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/vr4300sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/vr4300sim' instead.")
	}
}
