package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <suite.yaml>",
	Short: "Check a suite file without running it",
	Long: `Parse and validate a suite file without sending any request.
Every problem in the file is reported, not only the first.

Examples:
  reqsuite validate suite.yaml

Exit codes: 0 valid, 2 invalid suite.`,
	Args: cobra.ExactArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSuite(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d cases)\n", args[0], s.Len())
	return nil
}
