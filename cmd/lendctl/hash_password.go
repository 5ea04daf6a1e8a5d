package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loanlens/internal/service"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for seeding an officer account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args[0]) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		hash, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
