// Package main provides the entry point for the Voice-CV CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voicecv",
	Short: "Voice-dictated résumé builder",
	Long:  "Voice-CV turns a spoken career summary into a structured, printable résumé: speech capture, AI structuring, HTML/PDF rendering, gated behind a single-use micro-payment.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
