package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/reqsuite/packages/suite"
)

// loadSuite returns the suite named by args, or the built-in suite when
// no file is given. Parse and validation failures carry ExitInvalidSuite.
func loadSuite(args []string) (*suite.Suite, error) {
	if len(args) == 0 {
		return suite.Default(), nil
	}

	s, err := suite.LoadFile(args[0])
	if err != nil {
		return nil, withExitCode(ExitInvalidSuite, err)
	}
	if err := suite.Validate(s); err != nil {
		return nil, withExitCode(ExitInvalidSuite, fmt.Errorf("%s: %w", args[0], err))
	}
	return s, nil
}
