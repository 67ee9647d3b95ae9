package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/services/practice"
	"github.com/j-veylop/pianolog/internal/stats"
)

// checkActivities rejects ids missing from the catalog.
func checkActivities(mgr *services.Manager, ids []string) error {
	for _, id := range ids {
		if _, ok := mgr.Activities().Get(id); !ok {
			return fmt.Errorf("unknown activity %q (see 'pianolog activity list')", id)
		}
	}
	return nil
}

func (c *cli) startCmd() *cobra.Command {
	var activities []string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a practice session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				if err := checkActivities(mgr, activities); err != nil {
					return err
				}
				s, err := mgr.Practice().Start(activities)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Started session %s at %s\n", s.ID, s.StartTime.Format("15:04"))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&activities, "activity", "a", nil, "activity id (repeatable)")
	return cmd
}

func (c *cli) stopCmd() *cobra.Command {
	var details practice.StopDetails

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running session and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("activity") {
				details.Activities = nil
			}
			return c.withManager(func(mgr *services.Manager) error {
				if err := checkActivities(mgr, details.Activities); err != nil {
					return err
				}
				s, err := mgr.Practice().Stop(details)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Saved session %s (%s)\n", s.ID, stats.ShortDuration(s.Duration))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&details.Intensity, "intensity", "i", 0, fmt.Sprintf("intensity 0-%d", models.MaxIntensity))
	cmd.Flags().IntVarP(&details.Satisfaction, "satisfaction", "s", 0, fmt.Sprintf("satisfaction 0-%d", models.MaxSatisfaction))
	cmd.Flags().StringVarP(&details.Notes, "notes", "n", "", "session notes (markdown)")
	cmd.Flags().StringSliceVarP(&details.Activities, "activity", "a", nil, "replace the session's activities")
	return cmd
}

func (c *cli) discardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Drop the running session without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				if err := mgr.Practice().Discard(); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "Discarded running session")
				return nil
			})
		},
	}
}

func (c *cli) logCmd() *cobra.Command {
	var (
		start, end string
		session    models.Session
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a finished session",
		Example: `  pianolog log --start 2024-01-08T18:00:00+01:00 --end 2024-01-08T18:45:00+01:00 -a scales -i 6
  pianolog log --start 18:00 --end 18:45`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := c.now()
			var err error
			if session.StartTime, err = parseTime(start, now); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			if session.EndTime, err = parseTime(end, now); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			return c.withManager(func(mgr *services.Manager) error {
				if err := checkActivities(mgr, session.Activities); err != nil {
					return err
				}
				s, err := mgr.Practice().Log(session)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Logged session %s (%s)\n", s.ID, stats.ShortDuration(s.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start time (RFC 3339, or HH:MM today)")
	cmd.Flags().StringVar(&end, "end", "", "end time (RFC 3339, or HH:MM today)")
	cmd.Flags().StringSliceVarP(&session.Activities, "activity", "a", nil, "activity id (repeatable)")
	cmd.Flags().IntVarP(&session.Intensity, "intensity", "i", 0, "intensity 0-10")
	cmd.Flags().IntVarP(&session.Satisfaction, "satisfaction", "s", 0, "satisfaction 0-5")
	cmd.Flags().StringVarP(&session.Notes, "notes", "n", "", "session notes (markdown)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// parseTime accepts RFC 3339 or a local HH:MM on now's day.
func parseTime(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor HH:MM", s)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

func (c *cli) listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				if active := mgr.Practice().Active(); active != nil {
					fmt.Fprintf(c.out, "Running since %s (%s)\n\n",
						active.StartTime.Format("15:04"), stats.ShortDuration(active.LiveDuration(c.now())))
				}
				writeSessions(c.out, mgr.Practice().Recent(limit), mgr.Activities().Label, c.now())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum sessions, 0 for all")
	return cmd
}

func writeSessions(w io.Writer, sessions []models.Session, label func(string) string, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions yet")
		return
	}
	for i := range sessions {
		s := &sessions[i]
		names := make([]string, 0, len(s.Activities))
		for _, id := range s.Activities {
			names = append(names, label(id))
		}
		fmt.Fprintf(w, "%s  %-16s %-16s %7s  %s\n",
			s.ID[:min(8, len(s.ID))],
			s.StartTime.Format("2006-01-02 15:04"),
			humanize.RelTime(s.StartTime, now, "ago", "from now"),
			stats.ShortDuration(s.Duration),
			strings.Join(names, ", "),
		)
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a completed session",
		Long:  "Delete a completed session. ID may be the 8-character prefix shown by 'pianolog list'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				id, err := resolveID(mgr.Practice().Recent(0), args[0])
				if err != nil {
					return err
				}
				if err := mgr.Practice().Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Deleted session %s\n", id)
				return nil
			})
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var (
		start, end string
		session    models.Session
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a completed session",
		Long:  "Change a completed session. Only the flags given are applied; ID may be a prefix.",
		Example: `  pianolog edit 1f3a9c2e --notes "Chopin op. 28 no. 4, left hand alone"
  pianolog edit 1f3a9c2e --end 19:10 -s 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(mgr *services.Manager) error {
				id, err := resolveID(mgr.Practice().Recent(0), args[0])
				if err != nil {
					return err
				}
				s, err := mgr.Practice().Get(id)
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				now := c.now()
				if flags.Changed("start") {
					if s.StartTime, err = parseTime(start, now); err != nil {
						return fmt.Errorf("invalid --start: %w", err)
					}
				}
				if flags.Changed("end") {
					if s.EndTime, err = parseTime(end, now); err != nil {
						return fmt.Errorf("invalid --end: %w", err)
					}
				}
				if flags.Changed("activity") {
					if err := checkActivities(mgr, session.Activities); err != nil {
						return err
					}
					s.Activities = session.Activities
				}
				if flags.Changed("intensity") {
					s.Intensity = session.Intensity
				}
				if flags.Changed("satisfaction") {
					s.Satisfaction = session.Satisfaction
				}
				if flags.Changed("notes") {
					s.Notes = session.Notes
				}

				updated, err := mgr.Practice().Update(*s)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Updated session %s (%s)\n", updated.ID, stats.ShortDuration(updated.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start time (RFC 3339, or HH:MM today)")
	cmd.Flags().StringVar(&end, "end", "", "end time (RFC 3339, or HH:MM today)")
	cmd.Flags().StringSliceVarP(&session.Activities, "activity", "a", nil, "replace the session's activities")
	cmd.Flags().IntVarP(&session.Intensity, "intensity", "i", 0, "intensity 0-10")
	cmd.Flags().IntVarP(&session.Satisfaction, "satisfaction", "s", 0, "satisfaction 0-5")
	cmd.Flags().StringVarP(&session.Notes, "notes", "n", "", "session notes (markdown)")
	return cmd
}

// resolveID expands a unique id prefix.
func resolveID(sessions []models.Session, prefix string) (string, error) {
	for i := range sessions {
		if sessions[i].ID == prefix {
			return prefix, nil
		}
	}

	var match string
	for i := range sessions {
		if strings.HasPrefix(sessions[i].ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("session id %q is ambiguous", prefix)
			}
			match = sessions[i].ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("session %q not found", prefix)
	}
	return match, nil
}
