package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/sentrycam/internal/config"
	"github.com/nao1215/sentrycam/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the structured anomaly log",
		Long: `Report reads the structured anomaly log in full and prints a summary:
total anomalies, snapshot files on disk, the most frequent reasons,
per-class detection totals, and the busiest minutes.

The report refuses malformed logs. A truncated or hand-edited row aborts
the run with the offending row number rather than producing a partial
summary.

Examples:
  # Summarize the default data directory
  sentrycam report

  # Summarize another data directory as markdown
  sentrycam report --data-dir /var/lib/sentrycam --markdown

  # Write the report to a file
  sentrycam report -o report.txt`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("data-dir", "d", "",
		"Data directory holding the anomaly log and snapshots (default: XDG data dir)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	csvPath := cfg.AnomalyCSVPath()
	f, err := os.Open(csvPath) //nolint:gosec // Operator-owned log path
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no anomaly log at %s (run 'sentrycam watch' first)", csvPath)
		}
		return fmt.Errorf("failed to open anomaly log: %w", err)
	}
	defer f.Close()

	summary, err := report.Aggregate(f, cfg.SnapshotDir())
	if err != nil {
		return err
	}

	output, cleanup, err := openReportOutput(outputPath)
	if err != nil {
		return err
	}
	defer cleanup()

	var writer report.Writer
	if markdown {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewTextWriter(output)
	}

	_, err = writer.Write(summary)
	return err
}

// openReportOutput opens the report destination: the given file path, or
// standard output when the path is empty.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Operator-chosen report path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
