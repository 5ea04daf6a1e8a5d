package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loanlens/internal/underwriting"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <filename>...",
	Short: "Print the document type a filename resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", underwriting.Classify(name, ""), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
