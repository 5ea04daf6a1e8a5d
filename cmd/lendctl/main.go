// Package main implements lendctl, the offline companion to the LoanLens API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "lendctl",
	Short:         "LoanLens command line tools",
	Long:          "lendctl runs the underwriting analysis on local files, classifies document names and prepares officer credentials.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
