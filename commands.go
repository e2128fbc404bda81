package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deathbreakfast/marvel-mega-cut/catalog"
	"github.com/deathbreakfast/marvel-mega-cut/config"
	"github.com/deathbreakfast/marvel-mega-cut/engine"
	"github.com/deathbreakfast/marvel-mega-cut/ffprobe"
	"github.com/deathbreakfast/marvel-mega-cut/internal/timeutil"
	"github.com/deathbreakfast/marvel-mega-cut/logging"
	"github.com/deathbreakfast/marvel-mega-cut/progress"
	"github.com/deathbreakfast/marvel-mega-cut/render"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "megacut",
		Short:         "Cut and stitch catalog scenes into chronological mega cut parts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("config", "", "path to a megacut.yaml config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSampleCSVCmd())
	root.AddCommand(newSetAudioCmd())
	return root
}

// loadConfig merges configuration with precedence flags > file > env >
// defaults. Only flags the user actually set override the file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		loaded, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("csv") {
		cfg.CSVPath, _ = flags.GetString("csv")
	}
	if flags.Changed("movie-folder") {
		cfg.MovieFolder, _ = flags.GetString("movie-folder")
	}
	if flags.Changed("output") {
		cfg.OutputFolder, _ = flags.GetString("output")
	}
	if flags.Changed("chunk-duration") {
		cfg.ChunkDuration, _ = flags.GetInt("chunk-duration")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("sequential") {
		cfg.Sequential, _ = flags.GetBool("sequential")
	}
	if flags.Changed("chunks") {
		cfg.Chunks, _ = flags.GetString("chunks")
	}
	if flags.Changed("video-codec") {
		cfg.VideoCodec, _ = flags.GetString("video-codec")
	}
	if flags.Changed("audio-codec") {
		cfg.AudioCodec, _ = flags.GetString("audio-codec")
	}
	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}

	return cfg, nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan the catalog into chunks and render them",
		RunE:  runRun,
	}

	cmd.Flags().String("csv", "", "scene catalog CSV path")
	cmd.Flags().String("movie-folder", "", "folder containing the source files")
	cmd.Flags().String("output", "", "folder the chunk outputs are written to")
	cmd.Flags().Int("chunk-duration", config.DefaultChunkDuration, "max seconds per output chunk")
	cmd.Flags().Int("workers", config.DefaultWorkers, "parallel scene workers per chunk")
	cmd.Flags().Bool("sequential", false, "render scenes one at a time")
	cmd.Flags().String("chunks", "", `chunk subset to render, e.g. "1,3-4"`)
	cmd.Flags().String("video-codec", "", "ffmpeg video codec for scene trims")
	cmd.Flags().String("audio-codec", "", "ffmpeg audio codec for scene trims")
	cmd.Flags().Bool("dry-run", false, "print the chunk plan without rendering")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.Verbose)

	scenes, err := catalog.ExtractScenes(cfg.CSVPath, log)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	workDir, err := engine.NewWorkDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	canceller := progress.NewCanceller()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		log.Warn("interrupt received, finishing in-flight scenes then stopping")
		canceller.Cancel()
		cancel()
	}()

	ffmpeg := engine.NewFFmpeg(workDir, cfg.VideoCodec, cfg.AudioCodec)
	ffmpeg.OnProgress = func(p engine.Progress) {
		log.Debug("concat position %s at %.2fx", timeutil.FormatSeconds(p.Seconds), p.Speed)
	}
	ui := newConsoleEvents(log, os.Stdout)

	pipeline := render.NewPipeline(cfg, ffmpeg, log, ui, canceller)
	ui.bindTracker(pipeline.Tracker())

	report, err := pipeline.Run(ctx, scenes)
	if err != nil {
		return err
	}

	ui.printRunReport(report)
	if report.Cancelled {
		return fmt.Errorf("run cancelled")
	}
	if report.Summary.FailedChunks > 0 {
		log.Warn("%d of %d chunks failed", report.Summary.FailedChunks, report.Summary.TotalChunks)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <movie-or-path>",
		Short: "Probe a source file and list its audio tracks",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().String("movie-folder", "", "folder containing the source files")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		if cfg.MovieFolder == "" {
			return fmt.Errorf("%s is not a file and no movie folder is configured", path)
		}
		path, err = catalog.ResolveSource(cfg.MovieFolder, args[0])
		if err != nil {
			return err
		}
	}

	result, err := ffprobe.Probe(cmd.Context(), path)
	if err != nil {
		return err
	}

	printAudioTracks(os.Stdout, path, result.AudioTracks())
	return nil
}

func newSampleCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-csv [path]",
		Short: "Write a sample scene catalog CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "mega_cut_sample.csv"
			if len(args) == 1 {
				path = args[0]
			}
			if err := catalog.WriteSampleCSV(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sample catalog written to %s\n", path)
			return nil
		},
	}
}

func newSetAudioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-audio <movie-show> <audio-title>",
		Short: "Set the preferred audio track title for a movie/show in the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.CSVPath == "" {
				return fmt.Errorf("csv path must be specified via flag, config file, or MEGA_CUT_CSV")
			}

			updated, err := catalog.SetAudioTitle(cfg.CSVPath, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d scene(s) of %q to audio title %q\n",
				updated, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().String("csv", "", "scene catalog CSV path")
	return cmd
}
