// Package export renders sessions and aggregates as JSON or YAML.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/stats"
)

// Format is an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// documentVersion is bumped when the export layout changes.
const documentVersion = 1

// SessionRecord is the exported form of a completed session.
type SessionRecord struct {
	Start        time.Time `json:"start" yaml:"start"`
	End          time.Time `json:"end" yaml:"end"`
	ID           string    `json:"id" yaml:"id"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Activities   []string  `json:"activities" yaml:"activities"`
	DurationMs   int64     `json:"durationMs" yaml:"durationMs"`
	Intensity    int       `json:"intensity" yaml:"intensity"`
	Satisfaction int       `json:"satisfaction" yaml:"satisfaction"`
}

// Document is a full backup of the practice log.
type Document struct {
	ExportedAt time.Time         `json:"exportedAt" yaml:"exportedAt"`
	Sessions   []SessionRecord   `json:"sessions" yaml:"sessions"`
	Activities []models.Activity `json:"activities" yaml:"activities"`
	Reminders  []models.Reminder `json:"reminders" yaml:"reminders"`
	Version    int               `json:"version" yaml:"version"`
}

// NewSessionRecord converts a session for export.
func NewSessionRecord(s *models.Session) SessionRecord {
	activities := s.Activities
	if activities == nil {
		activities = []string{}
	}
	return SessionRecord{
		ID:           s.ID,
		Start:        s.StartTime,
		End:          s.EndTime,
		DurationMs:   s.Duration.Milliseconds(),
		Activities:   activities,
		Intensity:    s.Intensity,
		Satisfaction: s.Satisfaction,
		Notes:        s.Notes,
	}
}

// NewDocument builds a backup document.
func NewDocument(sessions []models.Session, activities []models.Activity, reminders []models.Reminder, now time.Time) Document {
	doc := Document{
		Version:    documentVersion,
		ExportedAt: now,
		Sessions:   make([]SessionRecord, 0, len(sessions)),
		Activities: activities,
		Reminders:  reminders,
	}
	for i := range sessions {
		doc.Sessions = append(doc.Sessions, NewSessionRecord(&sessions[i]))
	}
	if doc.Activities == nil {
		doc.Activities = []models.Activity{}
	}
	if doc.Reminders == nil {
		doc.Reminders = []models.Reminder{}
	}
	return doc
}

// PointRecord is one bar of an exported chart series.
type PointRecord struct {
	Start      time.Time `json:"start" yaml:"start"`
	Label      string    `json:"label" yaml:"label"`
	Class      string    `json:"class" yaml:"class"`
	Hours      float64   `json:"hours" yaml:"hours"`
	DurationMs int64     `json:"durationMs" yaml:"durationMs"`
}

// ActivityRecord is one exported rollup entry.
type ActivityRecord struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	DurationMs int64  `json:"durationMs" yaml:"durationMs"`
	Sessions   int    `json:"sessions" yaml:"sessions"`
}

// Summary is the exported form of an aggregate over one window.
type Summary struct {
	Start           time.Time        `json:"start" yaml:"start"`
	End             time.Time        `json:"end" yaml:"end"`
	Label           string           `json:"label" yaml:"label"`
	Granularity     string           `json:"granularity" yaml:"granularity"`
	Comparison      string           `json:"comparison" yaml:"comparison"`
	DaysPracticed   []string         `json:"daysPracticed" yaml:"daysPracticed"`
	Series          []PointRecord    `json:"series" yaml:"series"`
	Activities      []ActivityRecord `json:"activities" yaml:"activities"`
	TotalMs         int64            `json:"totalMs" yaml:"totalMs"`
	PreviousTotalMs int64            `json:"previousTotalMs" yaml:"previousTotalMs"`
	AxisMax         float64          `json:"axisMax" yaml:"axisMax"`
	GoalMinutes     int              `json:"goalMinutes" yaml:"goalMinutes"`
}

// NewSummary converts an aggregate. name resolves activity ids to display
// names; activities are ordered by duration, then id.
func NewSummary(res *stats.Result, label string, goalMinutes int, name func(id string) string) Summary {
	sum := Summary{
		Label:           label,
		Granularity:     res.Window.Granularity.String(),
		Start:           res.Window.Start,
		End:             res.Window.End,
		TotalMs:         res.TotalDuration.Milliseconds(),
		PreviousTotalMs: res.PreviousTotal.Milliseconds(),
		Comparison:      string(res.Comparison),
		DaysPracticed:   res.DaysPracticed,
		AxisMax:         res.AxisMax,
		GoalMinutes:     goalMinutes,
		Series:          make([]PointRecord, 0, len(res.Series)),
		Activities:      make([]ActivityRecord, 0, len(res.Rollup)),
	}
	if sum.DaysPracticed == nil {
		sum.DaysPracticed = []string{}
	}

	for _, p := range res.Series {
		sum.Series = append(sum.Series, PointRecord{
			Label:      p.Bucket.Label,
			Start:      p.Bucket.Start,
			Hours:      p.Hours,
			DurationMs: p.Duration.Milliseconds(),
			Class:      string(p.Class),
		})
	}

	for id, total := range res.Rollup {
		display := id
		if name != nil {
			display = name(id)
		}
		sum.Activities = append(sum.Activities, ActivityRecord{
			ID:         id,
			Name:       display,
			DurationMs: total.Duration.Milliseconds(),
			Sessions:   total.Sessions(),
		})
	}
	sort.Slice(sum.Activities, func(i, j int) bool {
		a, b := sum.Activities[i], sum.Activities[j]
		if a.DurationMs != b.DurationMs {
			return a.DurationMs > b.DurationMs
		}
		return a.ID < b.ID
	})

	return sum
}

// Write encodes v to w in the given format, ending with a newline.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case JSON:
		data, err := sonic.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
