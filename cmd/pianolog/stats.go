package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/pianolog/internal/export"
	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/stats"
)

func (c *cli) statsCmd() *cobra.Command {
	var (
		rangeName string
		offset    int
		goal      int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize practice over a week, month or year",
		Example: `  pianolog stats
  pianolog stats --range month --offset 1
  pianolog stats --range year --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := stats.ParseGranularity(rangeName)
			if err != nil {
				return err
			}
			if offset < 0 {
				return fmt.Errorf("--offset must not be negative, got %d", offset)
			}

			return c.withManager(func(mgr *services.Manager) error {
				if !cmd.Flags().Changed("goal") {
					goal = mgr.Config().GoalMinutes
				}

				now := c.now()
				w := mgr.Statistics().Window(g, now)
				for range offset {
					w = stats.Pan(w, stats.Backward, now)
				}
				res := mgr.Statistics().GetWindow(w, goal)
				summary := export.NewSummary(&res, stats.Label(w, now), goal, mgr.Activities().Label)

				if asJSON {
					return export.Write(c.out, export.JSON, summary)
				}
				writeSummary(c.out, &summary)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&rangeName, "range", "r", "week", "week, month or year")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "periods back from the current one")
	cmd.Flags().IntVarP(&goal, "goal", "g", 0, "daily goal in minutes (default GOAL_MINUTES)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeSummary(w io.Writer, s *export.Summary) {
	fmt.Fprintf(w, "%s (%s)\n\n", s.Label, stats.FormatRange(s.Start, s.End))

	for _, p := range s.Series {
		mark := " "
		switch stats.Classification(p.Class) {
		case stats.Over:
			mark = "+"
		case stats.Under:
			mark = "-"
		}
		fmt.Fprintf(w, "  %-4s %s %7s\n", p.Label, mark, stats.ShortDuration(msDuration(p.DurationMs)))
	}

	days := "days"
	if len(s.DaysPracticed) == 1 {
		days = "day"
	}
	fmt.Fprintf(w, "\nTotal   %s over %d %s\n", stats.ShortDuration(msDuration(s.TotalMs)), len(s.DaysPracticed), days)

	diff := msDuration(s.TotalMs - s.PreviousTotalMs)
	if stats.Comparison(s.Comparison) == stats.Increase {
		fmt.Fprintf(w, "        %s more than the previous %s\n", stats.ShortDuration(diff), s.Granularity)
	} else {
		fmt.Fprintf(w, "        %s less than the previous %s\n", stats.ShortDuration(-diff), s.Granularity)
	}

	if len(s.Activities) > 0 {
		fmt.Fprintln(w)
		for _, a := range s.Activities {
			fmt.Fprintf(w, "  %-16s %7s  %d sessions\n", a.Name, stats.ShortDuration(msDuration(a.DurationMs)), a.Sessions)
		}
	}
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
