package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sentrycam/internal/config"
	"github.com/nao1215/sentrycam/internal/database"
	"github.com/nao1215/sentrycam/internal/model"
)

// defaultEventLimit bounds the events listing unless --limit is given.
const defaultEventLimit = 20

// NewEventsCmd creates the events command.
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded anomaly events",
		Long: `Events lists anomalies from the local event database, newest first.

The database mirrors every row of the structured CSV log and allows
time-filtered queries without rescanning the log file.

Examples:
  # Show the 20 most recent events
  sentrycam events

  # Show events since a date
  sentrycam events --since 2026-03-14

  # Emit events as JSON for further processing
  sentrycam events --json`,
		Args: cobra.NoArgs,
		RunE: runEventsCmd,
	}

	cmd.Flags().StringP("data-dir", "d", "",
		"Data directory holding the event database (default: XDG data dir)")
	cmd.Flags().IntP("limit", "l", defaultEventLimit,
		"Maximum number of events to list")
	cmd.Flags().StringP("since", "s", "",
		"List events at or after this time (YYYY-MM-DD or 'YYYY-MM-DD HH:MM:SS')")
	cmd.Flags().BoolP("json", "j", false,
		"Output events as JSON")

	return cmd
}

// eventJSON is the JSON shape of one listed event.
type eventJSON struct {
	ID        int64    `json:"id"`
	Timestamp string   `json:"timestamp"`
	Reason    string   `json:"reason"`
	Labels    []string `json:"labels"`
	Counts    string   `json:"counts"`
	Snapshot  string   `json:"snapshot,omitempty"`
}

// runEventsCmd executes the events command.
func runEventsCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	since, err := parseSinceFlag(cmd)
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Never create an empty database just to list nothing from it.
	db, err := database.Open(cfg.DataDir, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no recorded events (run 'sentrycam watch' first): %w", err)
	}
	defer db.Close()

	events, err := db.RecentEvents(cmd.Context(), limit, since)
	if err != nil {
		return err
	}

	if asJSON {
		return writeEventsJSON(cmd, events)
	}

	total, err := db.CountEvents(cmd.Context())
	if err != nil {
		return err
	}
	writeEventsTable(cmd, events, total)
	return nil
}

// parseSinceFlag parses --since as a date or a full timestamp.
func parseSinceFlag(cmd *cobra.Command) (time.Time, error) {
	value, err := cmd.Flags().GetString("since")
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range []string{model.TimestampLayout, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (want YYYY-MM-DD or 'YYYY-MM-DD HH:MM:SS')", value)
}

// writeEventsJSON emits the events as an indented JSON array.
func writeEventsJSON(cmd *cobra.Command, events []database.Event) error {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON{
			ID:        e.ID,
			Timestamp: e.Record.Timestamp.Format(model.TimestampLayout),
			Reason:    e.Record.Reason,
			Labels:    e.Record.Labels,
			Counts:    e.Record.Counts.String(),
			Snapshot:  e.Record.Snapshot,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeEventsTable renders the events as a fixed-width table.
func writeEventsTable(cmd *cobra.Command, events []database.Event, total int64) {
	out := cmd.OutOrStdout()

	if len(events) == 0 {
		fmt.Fprintln(out, "No events match.")
		return
	}

	fmt.Fprintf(out, "%-6s %-19s %-40s %s\n", "ID", "TIMESTAMP", "REASON", "LABELS")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, e := range events {
		fmt.Fprintf(out, "%-6d %-19s %-40s %s\n",
			e.ID,
			e.Record.Timestamp.Format(model.TimestampLayout),
			e.Record.Reason,
			strings.Join(e.Record.Labels, ";"),
		)
	}
	fmt.Fprintf(out, "\nShowing %d of %d events.\n", len(events), total)
}
