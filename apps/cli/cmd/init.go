package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/config"
	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a starter suite and config file",
	Long: `Write the built-in ReqRes suite and a default configuration to a
directory, the current one by default, as a starting point for your own
suites.

This creates:
  - suite.yaml     - the built-in ReqRes suite
  - reqsuite.yaml  - configuration with default values

Examples:
  reqsuite init
  reqsuite init ./e2e --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	suiteFile := filepath.Join(dir, "suite.yaml")
	configFile := filepath.Join(dir, config.ConfigFilenames[0])

	if !forceInit {
		for _, f := range []string{suiteFile, configFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	files := []struct {
		path  string
		value any
	}{
		{suiteFile, suite.Default()},
		{configFile, config.DefaultConfig()},
	}
	for _, f := range files {
		data, err := yaml.Marshal(f.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, data, 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", f.path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'reqsuite run %s' to execute the suite.\n", suiteFile)
	return nil
}
