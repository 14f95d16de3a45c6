package main

import (
	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-inspection/internal/inspection"
	"github.com/ukydev/fleet-inspection/internal/models"
)

type scoredDefect struct {
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Severity    models.Severity `json:"severity" yaml:"severity"`
}

type scoreReport struct {
	VehicleID             string `json:"vehicle_id,omitempty" yaml:"vehicle_id,omitempty"`
	inspection.Assessment `yaml:",inline"`
	InitialStatus         models.InspectionStatus `json:"initial_status" yaml:"initial_status"`
	Defects               []scoredDefect          `json:"defects" yaml:"defects"`
}

func newScoreCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "score -f inspection.yaml",
		Short: "Classify the defects of an inspection and compute its health score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in inspectionInput
			if err := readFile(file, &in); err != nil {
				return err
			}
			insp, err := in.toModel()
			if err != nil {
				return err
			}

			assessment := inspection.Prepare(&insp)
			report := scoreReport{
				VehicleID:     insp.VehicleID,
				Assessment:    assessment,
				InitialStatus: insp.Status,
				Defects:       make([]scoredDefect, 0, len(insp.Defects)),
			}
			for _, d := range insp.Defects {
				report.Defects = append(report.Defects, scoredDefect{Category: d.Category, Description: d.Description, Severity: d.Severity})
			}
			return render(cmd, report)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Inspection file, YAML or JSON (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
