package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag    string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "reqsuite",
	Short: "End-to-end API checks against the ReqRes demo service.",
	Long: `reqsuite runs an ordered suite of HTTP request/assert cases and
reports each case's outcome. Without a suite file it runs the built-in
ReqRes suite against https://reqres.in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and maps its error to an exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("REQRES_CONFIG", ""), "Path to config file (env: REQRES_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (env: REQRES_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: text, json (env: REQRES_LOG_FORMAT)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig reads the config file and environment, then applies the
// given flag overrides. Any failure is a configuration error.
func loadConfig(overrides *config.Config) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	if overrides == nil {
		overrides = &config.Config{}
	}
	overrides.LogLevel = logLevelFlag
	overrides.LogFormat = logFormatFlag
	cfg = cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	return cfg, nil
}

// newLogger builds the diagnostics logger. Reports go to stdout; logs
// always go to w.
func newLogger(w io.Writer, cfg *config.Config, verbosity int) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbosity > 0 && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    cfg.NoColor,
			DisableTimestamp: true,
		})
	}
	return logger
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
