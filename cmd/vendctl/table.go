package main

import (
	"github.com/spf13/cobra"

	"github.com/junbin-yang/go-vendkit/internal/transcript"
)

func newTableCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the transition table for every state and operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			inventory := 2
			if flags.inventory >= 0 {
				inventory = flags.inventory
			}
			return transcript.Table(cmd.OutOrStdout(), inventory)
		},
	}
}
