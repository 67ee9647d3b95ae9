package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/stats"
)

func (c *cli) activityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"activities"},
		Short:   "Manage the activity catalog",
	}
	cmd.AddCommand(c.activityListCmd(), c.activityAddCmd(), c.activityRmCmd())
	return cmd
}

func (c *cli) activityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List activities with all-time totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				totals, err := mgr.Statistics().ActivityTotals()
				if err != nil {
					return err
				}
				for _, a := range mgr.Activities().List() {
					fmt.Fprintf(c.out, "%-16s %-20s %7s\n", a.ID, a.Label(), stats.ShortDuration(totals[a.ID]))
				}
				return nil
			})
		},
	}
}

func (c *cli) activityAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Add an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				if err := mgr.Activities().Add(models.Activity{ID: args[0], Name: name}); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Added activity %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func (c *cli) activityRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove an activity; logged sessions keep the id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				if err := mgr.Activities().Remove(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Removed activity %s\n", args[0])
				return nil
			})
		},
	}
}
