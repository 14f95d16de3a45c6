package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-inspection/internal/models"
	"gopkg.in/yaml.v3"
)

// render writes v to the command output in the format chosen with --output.
func render(cmd *cobra.Command, v interface{}) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type defectInput struct {
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Severity    string `yaml:"severity,omitempty"`
	Location    string `yaml:"location,omitempty"`
}

type inspectionInput struct {
	VehicleID string        `yaml:"vehicle_id"`
	Mileage   float64       `yaml:"mileage"`
	CreatedAt string        `yaml:"created_at"`
	Defects   []defectInput `yaml:"defects"`
}

type historyInput struct {
	VehicleID   string            `yaml:"vehicle_id"`
	Inspections []inspectionInput `yaml:"inspections"`
}

// readFile decodes a YAML (or JSON) document from path.
func readFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (in inspectionInput) toModel() (models.Inspection, error) {
	insp := models.Inspection{
		VehicleID: in.VehicleID,
		Mileage:   in.Mileage,
		Defects:   make([]models.Defect, 0, len(in.Defects)),
	}
	for _, d := range in.Defects {
		insp.Defects = append(insp.Defects, models.Defect{
			Category:    d.Category,
			Description: d.Description,
			Severity:    models.Severity(d.Severity),
			Location:    d.Location,
		})
	}
	if in.CreatedAt != "" {
		t, err := parseTime(in.CreatedAt)
		if err != nil {
			return insp, err
		}
		insp.CreatedAt = t
	}
	return insp, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
