package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sentrycam.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentrycam",
		Short: "Real-time video anomaly detection",
		Long: `sentrycam watches a camera or video stream, runs each frame through an
object-detection network, and flags frames that contain forbidden object
classes or too many people.

Every anomalous frame is recorded three ways: a snapshot image, a row in
a structured CSV log, and a line in a rotating human-readable log. The
report command summarizes the CSV log offline; the events command lists
recorded anomalies from the local event database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewEventsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
