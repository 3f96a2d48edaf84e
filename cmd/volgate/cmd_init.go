package main

import (
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/internal/setup"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively generate a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setup.RunTUI()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
