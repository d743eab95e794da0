package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/racecard-horses/internal/config"
	"github.com/pfrederiksen/racecard-horses/internal/logger"
	"github.com/pfrederiksen/racecard-horses/internal/scraper"
	"github.com/pfrederiksen/racecard-horses/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ExitSuccess         = 0
	ExitError           = 1
	ExitFetchError      = 2
	ExitExtractionError = 3
	ExitIOError         = 4
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "racecard-horses",
		Short: "Scrape horse names from today's racecards into a CSV file",
		Long: `A CLI tool that fetches the racecards page, extracts the horse names of
every race and writes them to horses_data.csv, echoing each one to stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, v)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default is ./racecard.yaml)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath, "CSV output path")
	cmd.Flags().String("format", config.DefaultOutputFormat, "Console output format: text or json")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")

	_ = v.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("output.format", cmd.Flags().Lookup("format"))

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v, flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.NewWithFormat(level, logger.Format(cfg.Logging.Format), cmd.ErrOrStderr()))

	sc := scraper.New(
		scraper.WithURL(cfg.Source.URL),
		scraper.WithUserAgent(cfg.Source.UserAgent),
		scraper.WithTimeout(cfg.Source.Timeout),
	)

	logger.Debug("Fetching racecards", logger.Fields{"url": sc.URL()})

	body, err := sc.Fetch()
	if err != nil {
		return fmt.Errorf("fetching racecards: %w", err)
	}

	// Extraction must succeed before the output file is touched
	races, err := scraper.NewExtractor().ExtractRaces(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("extracting entries: %w", err)
	}
	result := NewOutputResult(races, sc.URL(), "", time.Now().UTC())

	store, err := storage.New(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	if err := store.SaveEntries(result.Entries); err != nil {
		return fmt.Errorf("saving entries: %w", err)
	}
	result.OutputFile = store.Path()

	if err := WriteOutput(cmd.OutOrStdout(), result, OutputFormat(cfg.Output.Format)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Info("Saved entries", logger.Fields{
		"entries": result.EntryCount,
		"races":   len(result.Races),
		"path":    store.Path(),
	})
	logger.Debug("Run metrics", logger.DefaultMetrics().Snapshot())

	return nil
}

// ExitCode maps a run error to the process exit code
func ExitCode(err error) int {
	var (
		fetchErr      *scraper.FetchError
		extractionErr *scraper.ExtractionError
		ioErr         *storage.IOError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &fetchErr):
		return ExitFetchError
	case errors.As(err, &extractionErr):
		return ExitExtractionError
	case errors.As(err, &ioErr):
		return ExitIOError
	default:
		return ExitError
	}
}

// Run executes the root command with args and returns the exit code
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitSuccess
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
