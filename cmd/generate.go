package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// generateCmd generates the universe and writes the full export
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate cash flows, snapshots, events and analytics for a catalog",
	Run: func(cmd *cobra.Command, args []string) {
		u, err := buildUniverse(flagConfig())
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		exp, err := BuildExport(u, fundFilter)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeExportFile(outputPath, exp, outputFormat); err != nil {
			logrus.Fatalf("%v", err)
		}
		if outputPath != "" {
			logrus.Infof("Export written to %s", outputPath)
		}
	},
}
