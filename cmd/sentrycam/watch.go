package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/sentrycam/internal/config"
	"github.com/nao1215/sentrycam/internal/database"
	"github.com/nao1215/sentrycam/internal/evidence"
	"github.com/nao1215/sentrycam/internal/log"
	"github.com/nao1215/sentrycam/internal/pipeline"
	"github.com/nao1215/sentrycam/internal/rules"
	"github.com/nao1215/sentrycam/internal/video"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [input] [output]",
		Short: "Watch a video stream and record anomalies",
		Long: `Watch runs the real-time detection loop over a video stream.

Each frame goes through the object-detection network; frames containing
forbidden classes (or too many people, when a cap is set) are recorded
as anomalies: a snapshot image, a structured CSV row, and a line in the
rotating detection log.

The loop runs until the input ends, the display window is closed, or
Ctrl+C is pressed.

Examples:
  # Watch the first camera in a desktop window
  sentrycam watch

  # Watch a video file and write the annotated stream to another file
  sentrycam watch recording.mp4 annotated.mp4

  # Watch an RTSP stream with a lower confidence threshold
  sentrycam watch rtsp://camera.local/stream --threshold 0.3

Rules file (.sentrycam) example:
  anomaly_set:
    - chair
    - cellphone
  max_persons: 3
  threshold: 0.5`,
		Args: cobra.MaximumNArgs(2),
		RunE: runWatchCmd,
	}

	// Model flags
	cmd.Flags().StringP("network", "n", config.DefaultNetwork,
		"Detection model weights file (resolved under <data-dir>/models unless absolute)")
	cmd.Flags().String("model-config", config.DefaultModelConfig,
		"Detection model graph description file")
	cmd.Flags().String("names", config.DefaultNames,
		"Class-names file, one label per line")
	cmd.Flags().Float64P("threshold", "t", config.DefaultThreshold,
		"Detection confidence threshold in (0, 1]")
	cmd.Flags().Bool("overlay", true,
		"Draw detection boxes and labels onto rendered frames")

	// Storage flags
	cmd.Flags().StringP("data-dir", "d", "",
		"Data directory for logs, snapshots, and the event database (default: XDG data dir)")
	cmd.Flags().Bool("no-db", false,
		"Do not mirror anomaly records into the event database")

	// Rules file
	cmd.Flags().StringP("config", "c", "",
		"Rules file path (default: .sentrycam in current or home directory)")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewAppLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runWatch(ctx, cfg)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// rules file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	var err error

	cfg.Network, err = cmd.Flags().GetString("network")
	if err != nil {
		return nil, err
	}

	cfg.ModelConfig, err = cmd.Flags().GetString("model-config")
	if err != nil {
		return nil, err
	}

	cfg.Names, err = cmd.Flags().GetString("names")
	if err != nil {
		return nil, err
	}

	cfg.Threshold, err = cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return nil, err
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	cfg.Overlay, err = cmd.Flags().GetBool("overlay")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.RulesFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load anomaly rules from the rules file.
	// If user explicitly specified a rules file path, error if not found.
	// If no path specified, silently keep the defaults if no file found.
	explicitRulesPath := cfg.RulesFilePath != ""
	rulesPath := config.FindRulesFile(cfg.RulesFilePath)

	if rulesPath != "" {
		rf, err := config.LoadRulesFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules file %s: %w", rulesPath, err)
		}
		rf.Apply(cfg)
	} else if explicitRulesPath {
		// User explicitly specified a rules file that doesn't exist
		return nil, fmt.Errorf("rules file not found: %s", cfg.RulesFilePath)
	}

	// A flag-level threshold override beats the rules file.
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold, err = cmd.Flags().GetFloat64("threshold")
		if err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runWatch wires the collaborators and runs the detection loop.
func runWatch(ctx context.Context, cfg *config.Config) error {
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}

	detLog := log.NewDetectionLogger(cfg.DetectionLogPath(), config.MaxLogSizeMB, config.MaxLogBackups)
	defer func() {
		if err := detLog.Close(); err != nil {
			slog.Error("failed to close detection log", "error", err)
		}
	}()

	var db *database.EventDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DataDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open event database: %w", err)
		}
		defer db.Close()
	}

	ev, err := evidence.New(cfg.AnomalyCSVPath(), cfg.SnapshotDir(),
		evidence.WithLogger(detLog.Logger),
		evidence.WithEventDB(db),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := ev.Close(); err != nil {
			slog.Error("failed to close structured log", "error", err)
		}
	}()

	source, err := video.OpenSource(cfg.Input)
	if err != nil {
		return err
	}
	defer source.Close()

	sink, err := video.OpenSink(cfg.Output, "sentrycam")
	if err != nil {
		return err
	}
	defer sink.Close()

	detector, err := video.NewDNNDetector(
		cfg.ModelPath(cfg.Network),
		cfg.ModelPath(cfg.ModelConfig),
		cfg.ModelPath(cfg.Names),
		cfg.Threshold,
		video.WithOverlay(cfg.Overlay),
	)
	if err != nil {
		return err
	}
	defer detector.Close()

	printBanner(cfg)
	detLog.Info("watch started",
		"input", cfg.Input,
		"output", cfg.Output,
		"anomalySet", sortedCopy(cfg.AnomalySet),
		"maxPersons", cfg.MaxPersons,
	)

	evaluator := rules.NewEvaluator(cfg.AnomalySet, cfg.MaxPersons)
	loop := pipeline.New(source, detector, sink, evaluator, ev, video.NewImageSaver(),
		pipeline.WithLogger(detLog.Logger))

	return loop.Run(ctx)
}

// printBanner prints the startup summary to standard output.
func printBanner(cfg *config.Config) {
	fmt.Println("------------------------------------------------")
	fmt.Printf("Input  : %s\n", cfg.Input)
	fmt.Printf("Output : %s\n", cfg.Output)
	fmt.Println("Anomaly rules:")
	fmt.Printf("  - Presence of any: %v\n", sortedCopy(cfg.AnomalySet))
	if cfg.MaxPersons >= 0 {
		fmt.Printf("  - person count > %d\n", cfg.MaxPersons)
	}
	fmt.Printf("Log file : %s\n", cfg.DetectionLogPath())
	fmt.Printf("CSV file : %s\n", cfg.AnomalyCSVPath())
	fmt.Printf("Snapshots: %s\n", cfg.SnapshotDir())
	fmt.Println("Starting detection... Ctrl+C to stop.")
	fmt.Println("------------------------------------------------")
}

// sortedCopy returns a sorted copy of the given labels.
func sortedCopy(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	sort.Strings(out)
	return out
}
