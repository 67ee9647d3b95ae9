package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/pianolog/internal/version"
)

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(c.out, version.Info())
		},
	}
}
