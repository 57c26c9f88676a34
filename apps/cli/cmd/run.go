package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/config"
	"github.com/abdul-hamid-achik/reqsuite/packages/core/env"
	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
	"github.com/abdul-hamid-achik/reqsuite/packages/output"
	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
)

var runCmd = &cobra.Command{
	Use:   "run [suite.yaml]",
	Short: "Run a suite and report each case",
	Long: `Run the cases of a suite file in order, or the built-in ReqRes suite
when no file is given.

Examples:
  reqsuite run
  reqsuite run --tags auth
  reqsuite run --name "GET*" --bail
  reqsuite run suite.yaml --base-url http://localhost:8080
  reqsuite run -o junit --output-file report.xml
  reqsuite run --repeat 2 --tags read
  reqsuite run suite.yaml --watch
  reqsuite run suite.yaml --env-file base.env --env-file local.env

Exit codes: 0 all passed, 1 a case failed, 2 invalid suite, 3 configuration error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	// DefaultXLSXFile is used when xlsx output has no --output-file.
	DefaultXLSXFile = "reqsuite-report.xlsx"
)

var (
	baseURLFlag    string
	timeoutFlag    string
	bailFlag       bool
	nameFlag       string
	tagsFlag       string
	rateFlag       float64
	outputFlag     string
	outputFileFlag string
	noColorFlag    bool
	verboseFlag    int
	envFileFlags   []string
	watchFlag      bool
	repeatFlag     int
	proxyFlag      string
	insecureFlag   bool
	headerFlags    []string
	redirectsFlag  int
)

func init() {
	// Target flags
	runCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Base URL of the service (env: REQRES_BASE_URL)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout, e.g. 10s (env: REQRES_TIMEOUT)")
	runCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Extra request header "Name: value" (repeatable)`)
	runCmd.Flags().StringVar(&proxyFlag, "proxy", "", "Proxy URL for HTTP requests (env: REQRES_PROXY)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable TLS certificate validation (env: REQRES_INSECURE)")
	runCmd.Flags().StringArrayVar(&envFileFlags, "env-file", defaultEnvFiles(), "Path to .env file for variable interpolation, repeatable, later files win (env: REQRES_ENV_FILE)")
	runCmd.Flags().IntVar(&redirectsFlag, "max-redirects", config.DefaultRedirects, "Redirects to follow per request, 0 reports the 3xx itself (env: REQRES_MAX_REDIRECTS)")

	// Selection and execution flags
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only cases matching name pattern (* wildcard at either end)")
	runCmd.Flags().StringVarP(&tagsFlag, "tags", "t", getEnvString("REQRES_TAGS", ""), "Run only cases with any of these tags, comma-separated (env: REQRES_TAGS)")
	runCmd.Flags().BoolVar(&bailFlag, "bail", false, "Stop on first failure (env: REQRES_BAIL)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second, 0 for unlimited (env: REQRES_RATE)")
	runCmd.Flags().IntVar(&repeatFlag, "repeat", 1, "Run the suite this many times and report outcome drift")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the suite file for changes and re-run")

	// Output flags
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, json, junit, tap, xlsx (env: REQRES_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout) (env: REQRES_OUTPUT_FILE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: REQRES_NO_COLOR)")
	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output and debug logging")

	runCmd.SetUsageTemplate(runCmd.UsageTemplate() + "\n" + config.EnvHelp() + "\n")
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(report *runner.Report)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

func runFlagOverrides() (*config.Config, error) {
	overrides := &config.Config{
		BaseURL:    baseURLFlag,
		Bail:       bailFlag,
		Rate:       rateFlag,
		Proxy:      proxyFlag,
		Insecure:   insecureFlag,
		Output:     strings.ToLower(outputFlag),
		OutputFile: outputFileFlag,
		NoColor:    noColorFlag,
	}

	if timeoutFlag != "" {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 10s, 1m, 500ms)", timeoutFlag, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		overrides.Timeout = timeout
	}

	if len(headerFlags) > 0 {
		overrides.Headers = make(map[string]string, len(headerFlags))
		for _, h := range headerFlags {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
			}
			overrides.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}

	return overrides, nil
}

func defaultEnvFiles() []string {
	if path := getEnvString("REQRES_ENV_FILE", ""); path != "" {
		return []string{path}
	}
	return nil
}

// loadEnvFiles reads every .env file in order and merges them, so a key
// in a later file replaces the same key from an earlier one.
func loadEnvFiles(paths []string) (map[string]string, error) {
	sources := make([]map[string]string, 0, len(paths))
	for _, path := range paths {
		vars, err := env.LoadDotEnv(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, vars)
	}
	return env.MergeVariables(sources...), nil
}

func parseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// effectiveBaseURL decides whether the configured base URL replaces the
// suite's own. A flag or REQRES_BASE_URL always wins; a config file value
// only fills in for suites that do not name a base URL.
func effectiveBaseURL(cmd *cobra.Command, cfg *config.Config, s *suite.Suite) string {
	_, fromEnv := os.LookupEnv("REQRES_BASE_URL")
	if cmd.Flags().Changed("base-url") || fromEnv || s.Path == "" || s.BaseURL == "" {
		return cfg.BaseURL
	}
	return ""
}

func newFormatter(cfg *config.Config, w io.Writer, verbose bool) Formatter {
	switch cfg.Output {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w))
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w))
	case "xlsx":
		return output.NewXLSXFormatter(output.XLSXWithWriter(w))
	default: // "console"
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(verbose),
			output.WithNoColor(cfg.NoColor),
		)
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(log logrus.FieldLogger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-shutdown:
			log.WithField("signal", sig).Info("run canceled")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(shutdown)
	}()

	return ctx, cancel
}

func runCommand(cmd *cobra.Command, args []string) error {
	overrides, err := runFlagOverrides()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	cfg, err := loadConfig(overrides)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-redirects") {
		if redirectsFlag < 0 {
			return withExitCode(ExitConfigError, fmt.Errorf("--max-redirects must not be negative, got %d", redirectsFlag))
		}
		cfg.MaxRedirects = redirectsFlag
	}
	log := newLogger(cmd.ErrOrStderr(), cfg, verboseFlag)

	if repeatFlag < 1 {
		return withExitCode(ExitConfigError, fmt.Errorf("--repeat must be at least 1, got %d", repeatFlag))
	}
	if watchFlag && len(args) == 0 {
		return withExitCode(ExitConfigError, fmt.Errorf("--watch needs a suite file"))
	}

	s, err := loadSuite(args)
	if err != nil {
		return err
	}

	variables, err := loadEnvFiles(envFileFlags)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	r := runner.NewRunner(&runner.Config{
		BaseURL:      effectiveBaseURL(cmd, cfg, s),
		Timeout:      cfg.Timeout,
		Bail:         cfg.Bail,
		NameFilter:   nameFlag,
		TagsFilter:   parseTags(tagsFlag),
		Rate:         cfg.Rate,
		MaxRedirects: cfg.MaxRedirects,
		NoRedirects:  cfg.MaxRedirects == 0,
		Headers:      cfg.RequestHeaders(),
		Variables:    variables,
		Proxy:        cfg.Proxy,
		Insecure:     cfg.Insecure,
		Logger:       log,
	})

	ctx, cancel := signalContext(log)
	defer cancel()

	outPath := cfg.OutputFile
	if cfg.Output == "xlsx" && outPath == "" {
		outPath = DefaultXLSXFile
	}

	ok, err := runOnce(ctx, cmd, cfg, r, s, outPath, log)
	if err != nil {
		return err
	}

	if watchFlag {
		return watchSuite(ctx, cmd, cfg, r, args[0], outPath, log)
	}

	if !ok || ctx.Err() != nil {
		return errTestsFailed
	}
	return nil
}

// runOnce runs the suite repeatFlag times, writes one report and returns
// whether every run passed.
func runOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config, r *runner.Runner, s *suite.Suite, outPath string, log logrus.FieldLogger) (bool, error) {
	w := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return false, withExitCode(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	formatter := newFormatter(cfg, w, verboseFlag > 0)
	if cfg.Output == "console" {
		formatter.FormatHeader(version)
	}

	start := time.Now()
	ok := true
	var reports []*runner.Report
	for i := 0; i < repeatFlag; i++ {
		if ctx.Err() != nil {
			break
		}
		report, err := r.Run(ctx, s)
		if err != nil {
			formatter.FormatError(err)
			return false, err
		}
		formatter.FormatResult(report)
		reports = append(reports, report)
		ok = ok && report.OK()

		log.WithFields(logrus.Fields{
			"run":     i + 1,
			"passed":  report.Passed,
			"failed":  report.Failed,
			"skipped": report.Skipped,
		}).Debug("run finished")
	}

	if flushable, isFlushable := formatter.(Flushable); isFlushable {
		if err := flushable.Flush(time.Since(start)); err != nil {
			return false, fmt.Errorf("error writing output: %w", err)
		}
	}
	if outPath != "" {
		log.WithField("file", outPath).Info("report written")
	}

	if drift := runner.Drift(reports...); len(drift) > 0 {
		log.WithField("cases", strings.Join(drift, "; ")).Warn("case outcomes differ between runs")
	}

	return ok, nil
}

// watchSuite re-runs the suite whenever its file is written, until ctx is
// canceled. An invalid edit is reported and the previous suite is kept.
func watchSuite(ctx context.Context, cmd *cobra.Command, cfg *config.Config, r *runner.Runner, path, outPath string, log logrus.FieldLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)

	rerun := make(chan struct{}, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			log.WithField("file", path).Info("suite changed, re-running")
			s, err := loadSuite([]string{path})
			if err != nil {
				log.WithError(err).Error("suite is invalid, waiting for the next change")
				continue
			}
			if _, err := runOnce(ctx, cmd, cfg, r, s, outPath, log); err != nil {
				log.WithError(err).Error("run failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}
