// Command inspectctl runs the inspection rules offline: defect
// classification, health scoring, odometer checks and risk estimation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inspectctl",
		Short: "Classify, score and analyse vehicle inspections offline",
		Long: "inspectctl applies the fleet inspection rules to local data:\n" +
			"defect severity, health score, odometer consistency and breakdown risk.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	root.PersistentFlags().StringP("output", "o", "yaml", "Output format: yaml or json")

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newOdometerCmd())
	root.AddCommand(newRiskCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
