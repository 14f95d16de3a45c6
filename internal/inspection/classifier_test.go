package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-inspection/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		description string
		expected    models.Severity
	}{
		// critical-class categories
		{"broken brake", "mechanical", "Frein cassé", models.SeverityCritical},
		{"brake leak", "brakes", "Brake fluid LEAK near rear left wheel", models.SeverityCritical},
		{"stuck axle", "axle", "stuck axle after loading", models.SeverityCritical},
		{"worn tire", "tires", "Pneu avant usure importante", models.SeverityWarning},
		{"steering vibration", "steering", "vibration at high speed", models.SeverityWarning},
		{"engine without keyword", "engine", "strange behaviour on cold start", models.SeverityWarning},
		{"safety smoke", "safety", "smoke from under the seat", models.SeverityCritical},

		{"seat belt spaced", "seat belt", "seat belt broken, will not latch", models.SeverityCritical},
		{"belt frayed", "belt", "driver belt worn", models.SeverityWarning},

		// structural
		{"cracked frame", "chassis", "Longeron fissuré", models.SeverityCritical},
		{"chassis without keyword", "frame", "surface rust on crossmember", models.SeverityWarning},

		// bodywork and glass
		{"small scratch", "body", "Petite rayure sur la porte", models.SeverityMinor},
		{"cracked windshield", "glass", "windshield cracked on passenger side", models.SeverityWarning},
		{"detached panel", "bodywork", "rear bumper detached", models.SeverityCritical},

		// lighting
		{"brake light out", "lights", "brake light not working", models.SeverityCritical},
		{"rear light dim", "lights", "rear light dim", models.SeverityWarning},
		{"cabin light", "lights", "dome light not working", models.SeverityMinor},
		{"brake light out abbreviated", "lights", "Feu stop arrière HS", models.SeverityCritical},
		{"hs inside a word", "lights", "feu arriere dim, shsp sticker", models.SeverityWarning},

		// electrical
		{"battery smoke", "battery", "smoke from battery terminals", models.SeverityCritical},
		{"alternator noise", "alternator", "noise", models.SeverityWarning},
		{"electrical default", "electrical", "radio cuts out sometimes", models.SeverityWarning},

		// comfort never critical
		{"broken seat", "interior", "seat adjustment broken", models.SeverityWarning},
		{"climate smoke", "climate", "smoke from vents", models.SeverityWarning},
		{"stained seat", "interior", "coffee stain on seat", models.SeverityMinor},

		// fallback
		{"unknown critical", "misc", "oil leak under the truck", models.SeverityCritical},
		{"unknown warning", "misc", "strange noise", models.SeverityWarning},
		{"unknown minor", "", "sticker peeling off", models.SeverityMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.category, tt.description))
		})
	}
}

func TestClassify_WholeWords(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		description string
		expected    models.Severity
	}{
		{"keyword inside longer word", "interior", "cassette player missing knob", models.SeverityMinor},
		{"fallback keyword inside longer word", "misc", "cassette door sticky", models.SeverityMinor},
		{"inflected keyword", "misc", "hydraulic line leaking", models.SeverityCritical},
		{"plural keyword", "chassis", "fissures sur le longeron", models.SeverityCritical},
		{"feminine keyword", "mechanical", "pedale cassee", models.SeverityCritical},
		{"punctuation boundary", "misc", "oil: leak!", models.SeverityCritical},
		{"multi word keyword", "engine", "truck won't start this morning", models.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.category, tt.description))
		})
	}
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("frein casse", "casse"))
	assert.True(t, containsWord("casse", "casse"))
	assert.True(t, containsWord("feu stop hs", "hs"))
	assert.False(t, containsWord("cassette", "casse"))
	assert.False(t, containsWord("misfire", "fire"))
	assert.False(t, containsWord("shsp", "hs"))
	assert.False(t, containsWord("anything", ""))
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("Mechanical", "Frein cassé")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify("Mechanical", "Frein cassé"))
	}
}

func TestClassify_CaseAndAccentInsensitive(t *testing.T) {
	assert.Equal(t, Classify("mechanical", "frein casse"), Classify("MÉCANIQUE", "FREIN CASSÉ"))
	assert.Equal(t, models.SeverityCritical, Classify("Châssis", "FISSURÉ"))
}

func TestRuleName(t *testing.T) {
	assert.Equal(t, "structural", RuleName("chassis"))
	assert.Equal(t, "bodywork", RuleName("Pare-brise"))
	assert.Equal(t, "lighting", RuleName("brake light"))
	assert.Equal(t, "critical-class", RuleName("seatbelt"))
	assert.Equal(t, "critical-class", RuleName("Seat belt"))
	assert.Equal(t, "critical-class", RuleName("belts"))
	assert.Equal(t, "electrical", RuleName("electrical"))
	assert.Equal(t, "comfort", RuleName("climatisation"))
	assert.Equal(t, "comfort", RuleName("seat"))
	assert.Equal(t, "fallback", RuleName("cargo"))
}

func TestEffectiveSeverity(t *testing.T) {
	given := models.Defect{Category: "mechanical", Description: "Frein cassé", Severity: models.SeverityMinor}
	assert.Equal(t, models.SeverityMinor, EffectiveSeverity(given))

	none := models.Defect{Category: "mechanical", Description: "Frein cassé", Severity: models.SeverityNone}
	assert.Equal(t, models.SeverityNone, EffectiveSeverity(none))

	unknown := models.Defect{Category: "mechanical", Description: "Frein cassé", Severity: "fatal"}
	assert.Equal(t, models.SeverityCritical, EffectiveSeverity(unknown))
}

func TestFillSeverities(t *testing.T) {
	defects := []models.Defect{
		{Category: "body", Description: "Petite rayure sur la porte"},
		{Category: "tires", Description: "worn", Severity: models.SeverityCritical},
	}
	FillSeverities(defects)
	assert.Equal(t, models.SeverityMinor, defects[0].Severity)
	assert.Equal(t, models.SeverityCritical, defects[1].Severity)
	for _, d := range defects {
		assert.True(t, d.Severity.IsValid())
	}
}
