package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestClassifyCmd(t *testing.T) {
	out, err := execute(t, "classify", "mechanical", "Frein", "cassé")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "critical", got["severity"])
	assert.Equal(t, "critical-class", got["rule"])
	assert.Equal(t, "Frein cassé", got["description"])
}

func TestClassifyCmd_JSON(t *testing.T) {
	out, err := execute(t, "classify", "-o", "json", "body", "Petite rayure sur la porte")
	require.NoError(t, err)

	var got classification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "minor", string(got.Severity))
	assert.Equal(t, "bodywork", got.Rule)
}

func TestClassifyCmd_NeedsDescription(t *testing.T) {
	_, err := execute(t, "classify", "mechanical")
	assert.Error(t, err)
}

func TestScoreCmd(t *testing.T) {
	path := writeFixture(t, "inspection.yaml", `
vehicle_id: veh-1
mileage: 42000
defects:
  - category: mechanical
    description: Brake failure
  - category: body
    description: Petite rayure sur la porte
  - category: interior
    description: Radio broken
    severity: warning
`)
	out, err := execute(t, "score", "-f", path)
	require.NoError(t, err)

	var got struct {
		VehicleID     string `yaml:"vehicle_id"`
		Status        string `yaml:"status"`
		Score         int    `yaml:"score"`
		CriticalCount int    `yaml:"critical_count"`
		WarningCount  int    `yaml:"warning_count"`
		MinorCount    int    `yaml:"minor_count"`
		InitialStatus string `yaml:"initial_status"`
		Defects       []struct {
			Severity string `yaml:"severity"`
		} `yaml:"defects"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "veh-1", got.VehicleID)
	assert.Equal(t, "danger", got.Status)
	assert.Equal(t, 58, got.Score)
	assert.Equal(t, 1, got.CriticalCount)
	assert.Equal(t, 1, got.WarningCount)
	assert.Equal(t, 1, got.MinorCount)
	assert.Equal(t, "requires_action", got.InitialStatus)
	require.Len(t, got.Defects, 3)
	assert.Equal(t, "critical", got.Defects[0].Severity)
	assert.Equal(t, "warning", got.Defects[2].Severity)
}

func TestScoreCmd_JSONInput(t *testing.T) {
	path := writeFixture(t, "inspection.json", `{"vehicle_id":"veh-2","defects":[]}`)
	out, err := execute(t, "score", "-o", "json", "-f", path)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, float64(100), got["score"])
	assert.Equal(t, "pending_review", got["initial_status"])
}

func TestScoreCmd_Errors(t *testing.T) {
	_, err := execute(t, "score")
	assert.Error(t, err)

	_, err = execute(t, "score", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open")

	path := writeFixture(t, "bad.yaml", "defects: [\n")
	_, err = execute(t, "score", "-f", path)
	assert.ErrorContains(t, err, "decode")
}

func TestOdometerCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		anomaly bool
		reason  string
	}{
		{"normal", []string{"--previous", "1000", "--current", "1200", "--days", "1"}, false, ""},
		{"regression", []string{"--previous", "1000", "--current", "900"}, true, "mileage_regression"},
		{"jump", []string{"--previous", "1000", "--current", "2000", "--days", "1"}, true, "implausible_jump"},
		{"stagnation", []string{"--previous", "1000", "--current", "1005", "--days", "10"}, true, "stagnation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"odometer"}, tt.args...)...)
			require.NoError(t, err)

			var got struct {
				IsAnomaly bool   `yaml:"is_anomaly"`
				Reason    string `yaml:"reason"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.anomaly, got.IsAnomaly)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestRiskCmd(t *testing.T) {
	path := writeFixture(t, "history.yaml", `
vehicle_id: veh-1
inspections:
  - created_at: "2026-05-20T08:00:00Z"
    defects:
      - category: mechanical
        description: Brake failure
  - created_at: 2026-05-01
    defects: []
  - created_at: "2025-01-01T00:00:00Z"
    defects:
      - category: mechanical
        description: Brake failure
`)
	out, err := execute(t, "risk", "-f", path, "--now", "2026-06-01T00:00:00Z")
	require.NoError(t, err)

	var got struct {
		VehicleID       string  `yaml:"vehicle_id"`
		Level           string  `yaml:"level"`
		InspectionCount int     `yaml:"inspection_count"`
		CriticalRate    float64 `yaml:"critical_rate"`
		EstimatedCost   float64 `yaml:"estimated_cost"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "veh-1", got.VehicleID)
	assert.Equal(t, "high", got.Level)
	assert.Equal(t, 2, got.InspectionCount)
	assert.InDelta(t, 0.5, got.CriticalRate, 1e-9)
	assert.Equal(t, 2500.0, got.EstimatedCost)
}

func TestRiskCmd_Errors(t *testing.T) {
	path := writeFixture(t, "history.yaml", "inspections:\n  - defects: []\n")
	_, err := execute(t, "risk", "-f", path, "--now", "2026-06-01")
	assert.ErrorContains(t, err, "created_at is required")

	_, err = execute(t, "risk", "-f", path, "--now", "yesterday")
	assert.ErrorContains(t, err, "invalid time")
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := execute(t, "classify", "-o", "xml", "body", "scratch")
	assert.ErrorContains(t, err, "unknown output format")
}
