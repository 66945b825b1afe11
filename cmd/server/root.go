package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "palay",
	Short: "Palay - farm labor and rice marketplace backend",
	Long: `Palay tracks farm tasks and laborer wages, and runs a marketplace where
farmers list rice and buyers order it for pickup.

Run 'palay serve' to start the server, or 'palay seed' to load fixtures.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
