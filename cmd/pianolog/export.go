package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/pianolog/internal/export"
	"github.com/j-veylop/pianolog/internal/services"
)

func (c *cli) exportCmd() *cobra.Command {
	var formatName, output, since, until string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions, activities and reminders",
		Example: `  pianolog export > practice.json
  pianolog export --format yaml --output practice.yaml
  pianolog export --since 2024-01-01 --until 2024-02-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			now := c.now()
			var from, to time.Time
			if since != "" {
				if from, err = parseDate(since, now); err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
			}
			to = now
			if until != "" {
				if to, err = parseDate(until, now); err != nil {
					return fmt.Errorf("invalid --until: %w", err)
				}
			}
			ranged := since != "" || until != ""
			if ranged && !to.After(from) {
				return fmt.Errorf("--until must be after --since")
			}

			return c.withManager(func(mgr *services.Manager) error {
				sessions := mgr.Practice().Snapshot().Sessions
				if ranged {
					if sessions, err = mgr.Database().GetSessionsInRange(from, to); err != nil {
						return fmt.Errorf("failed to load sessions: %w", err)
					}
				}
				doc := export.NewDocument(
					sessions,
					mgr.Activities().List(),
					mgr.Reminders().List(),
					now,
				)

				if output == "" || output == "-" {
					return export.Write(c.out, format, doc)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := export.Write(f, format, doc); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to close %s: %w", output, err)
				}
				fmt.Fprintf(c.out, "Exported %d sessions to %s\n", len(doc.Sessions), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&since, "since", "", "only sessions ending after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&until, "until", "", "only sessions starting before this date (default now)")
	return cmd
}

// parseDate accepts a local YYYY-MM-DD (midnight) or RFC 3339.
func parseDate(s string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	return t, nil
}
