package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/nhl-scores/internal/config"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitPartial = 2
)

// ExitCodeError ends the process with Code without printing an error
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app holds the state shared by all commands
type app struct {
	cfg *config.Config
	now func() time.Time

	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	cmd := &cobra.Command{
		Use:   "nhl-scores",
		Short: "Scrape and analyze historical NHL game results",
		Long: `A CLI tool to collect every NHL game result from hockey-reference.com
and analyze the distribution of final scores across seasons.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Define flags
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: json or text")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newScrapeCmd(a),
		newAnalyzeCmd(a),
		newServeCmd(a),
	)

	return cmd
}

// setup loads the config file and configures logging
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if a.verbose {
		cfg.Log.Level = string(logger.LevelDebug)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(cfg.Log.Format)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr(), format))

	a.cfg = cfg
	logger.Debug("Configuration loaded", logger.Fields{
		"config":    a.configPath,
		"log_level": string(level),
	})
	return nil
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var exit *ExitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
