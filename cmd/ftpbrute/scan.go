package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/ftpbrute/internal/config"
	"github.com/nao1215/ftpbrute/internal/database"
	"github.com/nao1215/ftpbrute/internal/log"
	"github.com/nao1215/ftpbrute/internal/model"
	"github.com/nao1215/ftpbrute/internal/prober"
	"github.com/nao1215/ftpbrute/internal/report"
	"github.com/nao1215/ftpbrute/internal/trial"
	"github.com/nao1215/ftpbrute/internal/wordlist"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Test an FTP server for anonymous access and weak passwords",
		Long: `Scan checks a single FTP server you are authorized to test.

Unless --skip-anonymous is given, it first tries an anonymous login. If that
succeeds the scan stops. Otherwise every password of the wordlist is tried for
the given username, in order, one connection at a time, waiting --delay
seconds between attempts. The scan stops at the first accepted password.

Exit status is 0 when access was obtained and 1 when the wordlist was
exhausted, the scan was interrupted, or the configuration is invalid.

Examples:
  # Test the default admin user with passwords.txt
  ftpbrute scan --host ftp.example.com

  # Custom user, wordlist and pacing
  ftpbrute scan --host 192.0.2.10:2121 -u ftpuser -w rockyou.txt -d 2

  # Go through a SOCKS5 proxy and write a Markdown report
  ftpbrute scan --host ftp.example.com --proxy 127.0.0.1:1080 -m -o report.md

Configuration file (.ftpbrute) example:
  defaults:
    delay: 1s
  hosts:
    ftp.example.com:
      username: ftpadmin
      wordlist: lists/example.txt`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().String("host", "", "Target FTP server (host or host:port)")
	cmd.Flags().StringP("username", "u", config.DefaultUsername, "Username to test")
	cmd.Flags().StringP("wordlist", "w", config.DefaultWordlist, "Path to the password wordlist")
	cmd.Flags().IntP("timeout", "t", int(config.DefaultTimeout.Seconds()),
		"Connection timeout in seconds")
	cmd.Flags().Float64P("delay", "d", config.DefaultDelay.Seconds(),
		"Delay between attempts in seconds")
	cmd.Flags().Bool("skip-anonymous", false, "Skip anonymous login check")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy address (host:port)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ftpbrute in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false, "Do not save this run to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")

	_ = cmd.MarkFlagRequired("host") //nolint:errcheck // flag is defined above

	return cmd
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, cmd.OutOrStdout(), logger)
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

// buildConfig creates a Config from flags and the optional profile file.
// Flags given explicitly on the command line win over profile values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Host, err = flags.GetString("host"); err != nil {
		return nil, err
	}
	if cfg.Username, err = flags.GetString("username"); err != nil {
		return nil, err
	}
	if cfg.WordlistPath, err = flags.GetString("wordlist"); err != nil {
		return nil, err
	}

	timeout, err := flags.GetInt("timeout")
	if err != nil {
		return nil, err
	}
	cfg.Timeout = config.SecondsToDuration(float64(timeout))

	delay, err := flags.GetFloat64("delay")
	if err != nil {
		return nil, err
	}
	cfg.Delay = config.SecondsToDuration(delay)

	if cfg.SkipAnonymous, err = flags.GetBool("skip-anonymous"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise a missing file just means
	// no profiles.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.ApplyProfile(cfg.Profiles.ProfileFor(cfg.Host), flags.Changed)

	return cfg, nil
}

// runScan performs the anonymous check and the password run for cfg.
func runScan(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	console := report.NewConsoleObserver(out)
	console.Banner(cfg.Host, cfg.Username, cfg.WordlistPath, cfg.Timeout, cfg.Delay)

	// The wordlist is checked before any connection is made.
	passwords, err := wordlist.Load(cfg.WordlistPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	p, err := newProber(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	runReport := model.NewRunReport(cfg.Host, cfg.Username)
	runReport.Wordlist = cfg.WordlistPath
	runReport.Timeout = cfg.Timeout
	runReport.Delay = cfg.Delay
	recorder := report.NewRecorder(runReport)

	seq := trial.NewSequencer(p,
		trial.WithDelay(cfg.Delay),
		trial.WithObserver(trial.NewMultiObserver(console, recorder)),
		trial.WithLogger(logger),
	)
	target := cfg.Target()

	if !cfg.SkipAnonymous {
		accepted := seq.CheckAnonymous(target)
		console.Separator()
		if accepted {
			recorder.Finish(false)
			finishRun(ctx, cfg, runReport, out, logger)
			return nil
		}
	}

	console.Loaded(len(passwords))
	console.Separator()

	result, runErr := seq.Run(ctx, target, cfg.Username, passwords)
	recorder.Finish(runErr != nil)
	finishRun(ctx, cfg, runReport, out, logger)

	switch {
	case result.Found:
		return nil
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		logger.Warn("scan interrupted", "attempts", result.Attempts, "candidates", result.Total)
		return &exitError{code: 1}
	case runErr != nil:
		return runErr
	default:
		return &exitError{code: 1}
	}
}

func newProber(cfg *config.Config, logger *slog.Logger) (*prober.FTPProber, error) {
	opts := []prober.FTPProberOption{prober.WithLogger(logger)}
	if cfg.ProxyAddress != "" {
		dialer, err := prober.NewSOCKS5Dialer(cfg.ProxyAddress)
		if err != nil {
			return nil, err
		}
		opts = append(opts, prober.WithDialer(dialer))
		logger.Info("using SOCKS5 proxy", "proxy", cfg.ProxyAddress)
	}
	return prober.NewFTPProber(opts...), nil
}

// finishRun writes the requested report and stores the run in history.
// Failures here are logged and never change the exit status of the scan.
func finishRun(ctx context.Context, cfg *config.Config, runReport *model.RunReport, out io.Writer, logger *slog.Logger) {
	if err := saveRun(context.WithoutCancel(ctx), cfg, runReport, logger); err != nil {
		logger.Error("failed to save run", "host", runReport.Host, "error", err)
	}
	if err := outputReport(cfg, runReport, out); err != nil {
		logger.Error("report failed", "host", runReport.Host, "error", err)
	}
}

// outputReport writes the report in the requested format. Without --json,
// --markdown or --output nothing is written: the console already shows the
// result.
func outputReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) error {
	format := report.FormatText
	switch {
	case cfg.JSONReport:
		format = report.FormatJSON
	case cfg.MarkdownReport:
		format = report.FormatMarkdown
	case cfg.ReportFile == "":
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports can hold a discovered password.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := report.NewWriter(format, output, getVersion()).Write(runReport)
	return err
}

// saveRun stores the run in the history database if enabled.
func saveRun(ctx context.Context, cfg *config.Config, runReport *model.RunReport, logger *slog.Logger) error {
	if !cfg.SaveToDB {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, runReport)
	if err != nil {
		return err
	}
	logger.Info("run saved to history", "id", id, "db", db.Path())
	return nil
}
