package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fundsim/fundsim/sim/catalog"
)

// validateCmd checks a catalog without generating anything
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a fund catalog",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := validateCatalog(catalogPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog OK: %d funds\n", n)
	},
}

func validateCatalog(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("--catalog is required")
	}
	c, err := catalog.Load(path)
	if err != nil {
		return 0, err
	}
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return len(c.Funds), nil
}
