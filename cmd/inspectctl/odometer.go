package main

import (
	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-inspection/internal/inspection"
)

func newOdometerCmd() *cobra.Command {
	var flags struct {
		previous float64
		current  float64
		days     float64
	}
	cmd := &cobra.Command{
		Use:   "odometer --previous KM --current KM --days N",
		Short: "Check two odometer readings for regression, jumps or stagnation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render(cmd, inspection.CheckOdometer(flags.previous, flags.current, flags.days))
		},
	}
	f := cmd.Flags()
	f.Float64Var(&flags.previous, "previous", 0, "Previous reading in km (required)")
	f.Float64Var(&flags.current, "current", 0, "Current reading in km (required)")
	f.Float64Var(&flags.days, "days", 1, "Days between the two readings")
	_ = cmd.MarkFlagRequired("previous")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}
