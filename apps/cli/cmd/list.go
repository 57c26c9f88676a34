package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
)

var listCmd = &cobra.Command{
	Use:   "list [suite.yaml]",
	Short: "List the cases of a suite",
	Long: `List the cases of a suite file, or of the built-in ReqRes suite when
no file is given, in the order they run.

Examples:
  reqsuite list
  reqsuite list suite.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSuite(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.Path != "" {
		fmt.Fprintf(out, "%s (%s)\n", s.Name, s.Path)
	} else {
		fmt.Fprintf(out, "%s (built-in)\n", s.Name)
	}

	table := tablewriter.NewWriter(out)
	table.Header("#", "Name", "Method", "URL", "Expect", "Tags", "Checks")
	for i := range s.Cases {
		tc := &s.Cases[i]
		name := tc.Name
		if tc.Skip != "" {
			name += " (skip: " + tc.Skip + ")"
		}
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			name,
			tc.Method,
			tc.URL,
			strconv.Itoa(tc.ExpectStatus),
			strings.Join(tc.Tags, ","),
			describeChecks(tc.Assertions),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%d cases\n", s.Len())
	return nil
}

func describeChecks(assertions []suite.Assertion) string {
	parts := make([]string, 0, len(assertions))
	for _, a := range assertions {
		path := a.Path
		if path == "" {
			path = "body"
		}
		if a.Predicate.NeedsValue() {
			parts = append(parts, fmt.Sprintf("%s %s %v", path, a.Predicate, a.Value))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", path, a.Predicate))
		}
	}
	return strings.Join(parts, "; ")
}
