package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-inspection/internal/inspection"
	"github.com/ukydev/fleet-inspection/internal/models"
)

type riskReport struct {
	VehicleID               string `json:"vehicle_id,omitempty" yaml:"vehicle_id,omitempty"`
	inspection.RiskEstimate `yaml:",inline"`
}

func newRiskCmd() *cobra.Command {
	var file, now string
	cmd := &cobra.Command{
		Use:   "risk -f history.yaml [--now 2026-06-01T00:00:00Z]",
		Short: "Estimate breakdown risk from a vehicle's inspection history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at := time.Now().UTC()
			if now != "" {
				t, err := parseTime(now)
				if err != nil {
					return err
				}
				at = t
			}

			var in historyInput
			if err := readFile(file, &in); err != nil {
				return err
			}
			inspections := make([]models.Inspection, 0, len(in.Inspections))
			for i, entry := range in.Inspections {
				insp, err := entry.toModel()
				if err != nil {
					return fmt.Errorf("inspection %d: %w", i, err)
				}
				if insp.CreatedAt.IsZero() {
					return fmt.Errorf("inspection %d: created_at is required", i)
				}
				inspections = append(inspections, insp)
			}

			return render(cmd, riskReport{VehicleID: in.VehicleID, RiskEstimate: inspection.EstimateRisk(inspections, at)})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Inspection history file, YAML or JSON (required)")
	cmd.Flags().StringVar(&now, "now", "", "Reference time, RFC 3339 or YYYY-MM-DD (default: current time)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
