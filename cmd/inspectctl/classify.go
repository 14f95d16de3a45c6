package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-inspection/internal/inspection"
	"github.com/ukydev/fleet-inspection/internal/models"
)

type classification struct {
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Rule        string          `json:"rule" yaml:"rule"`
	Severity    models.Severity `json:"severity" yaml:"severity"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classify <category> <description...>",
		Short:   "Classify a single defect",
		Example: `  inspectctl classify mechanical "Frein cassé"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := args[0]
			description := strings.Join(args[1:], " ")
			return render(cmd, classification{
				Category:    category,
				Description: description,
				Rule:        inspection.RuleName(category),
				Severity:    inspection.Classify(category, description),
			})
		},
	}
}
