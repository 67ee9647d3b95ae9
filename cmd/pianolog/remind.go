package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/j-veylop/pianolog/internal/services"
)

func (c *cli) remindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage weekly practice reminders",
	}
	cmd.AddCommand(
		c.remindAddCmd(),
		c.remindListCmd(),
		c.remindRmCmd(),
		c.remindToggleCmd("enable", true),
		c.remindToggleCmd("disable", false),
	)
	return cmd
}

func (c *cli) remindAddCmd() *cobra.Command {
	var weekday, at, message string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Schedule a weekly reminder",
		Example: `  pianolog remind add --weekday mon --at 18:30 --message "Scales first"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseWeekday(weekday)
			if err != nil {
				return err
			}
			clock, err := time.Parse("15:04", at)
			if err != nil {
				return fmt.Errorf("invalid --at %q, want HH:MM", at)
			}

			return c.withManager(func(mgr *services.Manager) error {
				r, err := mgr.Reminders().Schedule(day, clock.Hour(), clock.Minute(), message)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Scheduled reminder %d: %s\n", r.ID, r.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&weekday, "weekday", "d", "", "day of week (mon, tuesday, 3, ...)")
	cmd.Flags().StringVarP(&at, "at", "t", "", "local time HH:MM")
	cmd.Flags().StringVarP(&message, "message", "m", "", "alert text")
	_ = cmd.MarkFlagRequired("weekday")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// parseWeekday accepts English day names, three-letter prefixes and 0-6
// with 0 as Sunday.
func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.HasPrefix(strings.ToLower(d.String()), s) {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

func (c *cli) remindListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				list := mgr.Reminders().List()
				if len(list) == 0 {
					fmt.Fprintln(c.out, "No reminders scheduled")
					return nil
				}
				now := c.now()
				for i := range list {
					r := &list[i]
					status := "next " + humanize.RelTime(r.NextFire(now), now, "ago", "from now")
					if !r.Enabled {
						status = "disabled"
					}
					fmt.Fprintf(c.out, "%3d  %s  %-24s %s\n", r.ID, r.String(), r.Message, status)
				}
				if next, at, ok := mgr.Reminders().NextFire(now); ok {
					fmt.Fprintf(c.out, "\nNext: #%d on %s\n", next.ID, at.Format("Mon 2 Jan 15:04"))
				}
				return nil
			})
		},
	}
}

func parseReminderID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid reminder id %q", s)
	}
	return id, nil
}

func (c *cli) remindToggleCmd(name string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " ID",
		Short: strings.ToUpper(name[:1]) + name[1:] + " a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseReminderID(args[0])
			if err != nil {
				return err
			}
			return c.withManager(func(mgr *services.Manager) error {
				if err := mgr.Reminders().SetEnabled(id, enabled); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Reminder %d %sd\n", id, name)
				return nil
			})
		},
	}
}

func (c *cli) remindRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "cancel"},
		Short:   "Remove a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseReminderID(args[0])
			if err != nil {
				return err
			}
			return c.withManager(func(mgr *services.Manager) error {
				if err := mgr.Reminders().Cancel(id); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Removed reminder %d\n", id)
				return nil
			})
		},
	}
}
