package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version 通过 -ldflags "-X main.Version=..." 注入
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vendctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vendctl version %s\n", Version)
		},
	}
}
