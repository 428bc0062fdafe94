package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robinbraemer/logpuzzle"
	"github.com/robinbraemer/logpuzzle/internal/config"
	"github.com/spf13/cobra"
)

// errUsage is returned when the command line is incomplete.
// The usage text has already been printed when it is returned.
var errUsage = errors.New("usage error")

// NewRootCmd creates the logpuzzle command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logpuzzle [-d|--todir DIR] LOGFILE",
		Short: "Find puzzle image URLs in an Apache log and download them",
		Long: `logpuzzle scans an Apache access log for requests of puzzle images.

Without --todir the puzzle URLs are printed one per line, in puzzle order.
With --todir the images are downloaded into the directory as img0.jpg,
img1.jpg, ... together with an index.html showing the assembled puzzle.

Examples:
  # Print the puzzle URLs
  logpuzzle animal_code.google.com

  # Download the images and build index.html
  logpuzzle --todir animaldir animal_code.google.com

  # Keep going when an image cannot be fetched
  logpuzzle -k -d placedir place_code.google.com

Configuration file (.logpuzzle.yaml or ~/.config/logpuzzle/config.yaml):
  base_url: http://code.google.com
  timeout: 1m
  keep_going: true`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("todir", "d", "",
		"Destination directory for downloaded images")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for fetching a single image (0 disables it)")
	cmd.Flags().BoolP("keep-going", "k", false,
		"Skip images that fail to download instead of aborting")
	cmd.Flags().BoolP("quiet", "q", false,
		"Disable progress output while downloading")
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Format of the printed URL list: text or markdown")
	cmd.Flags().String("base-url", logpuzzle.DefaultBaseURL,
		"Base URL prepended to every puzzle path")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .logpuzzle.yaml or XDG config directory)")

	cmd.SetVersionTemplate(versionTemplate())

	return cmd
}

// Execute runs the root command with args and returns the process exit code.
func Execute(args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return 1
	}
	return 0
}

// runRootCmd executes the root command.
func runRootCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_ = cmd.Usage()
		return errUsage
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cmd, cfg, logger)
}

// run extracts the puzzle URLs and prints or downloads them.
func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	extractor := &logpuzzle.Extractor{BaseURL: cfg.BaseURL, Logger: logger}
	urls, err := extractor.ReadFile(cfg.LogFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.ToDir == "" {
		return writeURLs(out, urls, cfg.Format)
	}

	fmt.Fprintf(out, "Downloading from %s to %s..\n", cfg.LogFile, cfg.ToDir)
	download := &logpuzzle.Download{
		URLs:      urls,
		Dst:       cfg.ToDir,
		Policy:    cfg.FailurePolicy(),
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		TempDir:   cfg.TempDir,
		Logger:    logger,
	}
	if !cfg.Quiet {
		download.Stdout = out
		download.Bar = newProgressBar(cmd.ErrOrStderr())
	}
	res, err := download.Start(ctx)
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d images could not be downloaded:\n", len(res.Failed), len(urls))
		for _, f := range res.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", f)
		}
	}
	return nil
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags set on the command line, in increasing precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist, an implicit one is optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(f)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	if cfg.ToDir, err = flags.GetString("todir"); err != nil {
		return nil, err
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("keep-going") {
		if cfg.KeepGoing, err = flags.GetBool("keep-going"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("quiet") {
		if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("base-url") {
		baseURL, err := flags.GetString("base-url")
		if err != nil {
			return nil, err
		}
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.LogFile = args[0]
	}
	return cfg, nil
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

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
