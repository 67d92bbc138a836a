package main

import "os"

// main is the entry point for the cleanbot binary.
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
