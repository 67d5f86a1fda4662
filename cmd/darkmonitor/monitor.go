package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/darkmonitor/internal/config"
	"github.com/nao1215/darkmonitor/internal/fetch"
	intlog "github.com/nao1215/darkmonitor/internal/log"
	"github.com/nao1215/darkmonitor/internal/model"
	"github.com/nao1215/darkmonitor/internal/report"
	"github.com/nao1215/darkmonitor/internal/scan"
	"github.com/nao1215/darkmonitor/internal/tor"
)

// monitorOptions holds the parsed command line of a scan.
type monitorOptions struct {
	keyword        string
	configPath     string
	configExplicit bool
	outputPath     string
	format         report.Format
	verbose        bool
}

// runMonitorCmd executes the root command.
func runMonitorCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseMonitorOptions(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runMonitor(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// parseMonitorOptions reads the flags of the root command.
func parseMonitorOptions(cmd *cobra.Command, args []string) (*monitorOptions, error) {
	opts := &monitorOptions{
		keyword: args[0],
		format:  report.FormatText,
		verbose: getVerboseFlag(cmd),
	}

	var err error
	if opts.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	opts.configExplicit = cmd.Flags().Changed("config")

	if opts.outputPath, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	switch {
	case jsonReport && markdownReport:
		return nil, fmt.Errorf("--json and --markdown cannot be used together")
	case jsonReport:
		opts.format = report.FormatJSON
	case markdownReport:
		opts.format = report.FormatMarkdown
	}

	return opts, nil
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

// runMonitor loads the configuration, sets up the Tor session, runs the scan
// and writes the report. Configuration and proxy errors are returned before
// any search request is made.
func runMonitor(ctx context.Context, opts *monitorOptions, stdout, stderr io.Writer) error {
	cfgPath := config.FindConfigFile(opts.configPath, opts.configExplicit)
	if cfgPath == "" {
		cfgPath = opts.configPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := intlog.New(stderr, intlog.Options{
		Verbose: opts.verbose,
		Secrets: []string{cfg.Tor.ControlPassword},
	})
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "path", cfgPath)

	session, err := tor.NewSession(ctx, cfg, tor.WithSessionLogger(logger))
	if err != nil {
		return err
	}
	if session.Verified() {
		printSuccess(stderr, "Successfully connected to Tor network (exit IP %s)", session.ExitIP())
	} else {
		printWarn(stderr, "Tor is disabled: requests are NOT anonymized")
	}

	fetcher := fetch.New(session.HTTPClient(), session,
		fetch.WithMaxRetries(cfg.Network.MaxRetries),
		fetch.WithTimeout(cfg.Network.Timeout),
		fetch.WithRequestDelay(cfg.Safety.RequestDelay),
		fetch.WithMaxBodySize(cfg.Network.MaxBodySize),
		fetch.WithLogger(logger),
	)
	scanner := scan.NewScanner(fetcher,
		scan.WithTargetURL(cfg.Scan.TargetURL),
		scan.WithLogger(logger),
	)

	printInfo(stderr, "Scanning for %q", opts.keyword)
	result := scanner.Scan(ctx, opts.keyword)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}

	scanReport := model.NewReport(opts.keyword, result, time.Now())
	if err := writeReport(opts, scanReport, stdout); err != nil {
		return err
	}

	if opts.outputPath != "" {
		printSuccess(stderr, "Report saved to %s", opts.outputPath)
	}
	return nil
}

// writeReport writes the report to the output file, or to stdout when no
// output path is set. The file is replaced with owner-only permissions.
func writeReport(opts *monitorOptions, scanReport *model.Report, stdout io.Writer) error {
	output := stdout
	if opts.outputPath != "" {
		if dir := filepath.Dir(opts.outputPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(opts.outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer, err := report.NewWriter(opts.format, output)
	if err != nil {
		return err
	}
	if _, err := writer.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
