// Package inspection holds the pure rules applied to inspection defects:
// severity classification, health scoring, status resolution and the
// advisory odometer and risk heuristics.
package inspection

import (
	"strings"
	"unicode"

	"github.com/ukydev/fleet-inspection/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rule maps a category predicate and keyword sets to a severity.
// Keywords and category tokens are written in normalized form (lowercase, no accents).
type rule struct {
	name       string
	categories []string
	// gate, when set, must match the description for keyword hits to count;
	// descriptions outside the gate get ungated.
	gate    []string
	ungated models.Severity

	critical   []string
	onCritical models.Severity
	warning    []string
	fallback   models.Severity
}

// Category tokens are stems ("mechanic", "alternat"), so they match as substrings.
func (r rule) matches(category string) bool {
	for _, c := range r.categories {
		if strings.Contains(category, c) {
			return true
		}
	}
	return false
}

func (r rule) apply(description string) models.Severity {
	if len(r.gate) > 0 && !containsAny(description, r.gate) {
		return r.ungated
	}
	if containsAny(description, r.critical) {
		return r.onCritical
	}
	if containsAny(description, r.warning) {
		return models.SeverityWarning
	}
	return r.fallback
}

var (
	mechanicalCritical = []string{
		"no brake", "brake failure", "ne freine plus", "plus de frein",
		"casse", "broken", "cracked", "fissure", "leak", "fuite",
		"smoke", "fumee", "stuck axle", "essieu bloque", "bloque", "seized",
		"failure", "defaillance", "hors service", "burst", "eclate", "creve", "flat tire",
		"ne demarre pas", "won't start", "on fire", "incendie", "detache", "detached",
	}
	mechanicalWarning = []string{
		"worn", "usure", "usee", "vibration", "vibre", "warning light", "voyant",
		"corrosion", "rouille", "rust", "noise", "bruit", "grince", "squeal",
		"low pressure", "pression basse", "sous-gonfle", "underinflated",
	}
	structuralCritical = []string{
		"cracked", "fissure", "casse", "broken", "rupture", "deforme", "deformed",
		"perfore", "perforated", "rouille perforante",
	}
	bodyCritical = []string{
		"detache", "detached", "arete vive", "sharp edge", "shattered", "vole en eclats",
		"ne ferme plus", "won't close", "visibilite reduite", "obstructs view",
	}
	bodyWarning = []string{
		"broken", "casse", "cracked", "fissure", "fele", "impact", "etoile", "chip",
	}
	rearLightGate = []string{
		"rear", "arriere", "brake light", "stop", "frein", "tail", "taillight",
	}
	lightingCritical = []string{
		"not working", "ne fonctionne", "eteint", "broken", "casse", "missing",
		"absent", "no light", "grille", "burnt", "dead", "hors service", "hs",
	}
	electricalCritical = []string{
		"smoke", "fumee", "burning", "brule", "short circuit", "court-circuit",
		"ne demarre pas", "no start", "won't start", "on fire", "incendie",
		"leak", "fuite", "melted", "fondu", "dead battery", "batterie morte",
	}
	comfortCritical = []string{
		"broken", "casse", "not working", "ne fonctionne", "smoke", "fumee",
		"burning", "brule", "loose", "desserre",
	}
	genericCritical = []string{
		"no brake", "leak", "fuite", "smoke", "fumee", "on fire", "incendie",
		"cracked", "fissure", "casse", "broken", "failure", "defaillance",
		"stuck", "bloque", "dangerous", "dangereux",
	}
	genericWarning = []string{
		"worn", "usure", "vibration", "warning light", "voyant", "corrosion",
		"rouille", "rust", "noise", "bruit",
	}
)

// rules is evaluated in order; the first rule whose category predicate
// matches decides the severity.
var rules = []rule{
	{
		name:       "structural",
		categories: []string{"chassis", "frame", "cadre", "longeron"},
		critical:   structuralCritical,
		onCritical: models.SeverityCritical,
		fallback:   models.SeverityWarning,
	},
	{
		name:       "bodywork",
		categories: []string{"body", "carrosserie", "glass", "vitre", "windshield", "windscreen", "pare-brise", "mirror", "retroviseur"},
		critical:   bodyCritical,
		onCritical: models.SeverityCritical,
		warning:    bodyWarning,
		fallback:   models.SeverityMinor,
	},
	{
		name:       "lighting",
		categories: []string{"light", "lamp", "feu", "phare", "eclairage", "clignotant", "signal"},
		gate:       rearLightGate,
		ungated:    models.SeverityMinor,
		critical:   lightingCritical,
		onCritical: models.SeverityCritical,
		fallback:   models.SeverityWarning,
	},
	{
		name:       "electrical",
		categories: []string{"electric", "battery", "batterie", "alternat", "starter", "demarreur", "wiring", "cablage"},
		critical:   electricalCritical,
		onCritical: models.SeverityCritical,
		fallback:   models.SeverityWarning,
	},
	{
		name: "critical-class",
		categories: []string{
			"mechanic", "mecanique", "brake", "frein", "tire", "tyre", "pneu", "wheel", "roue",
			"steering", "direction", "suspension", "axle", "essieu", "engine", "moteur",
			"safety", "securite", "seatbelt", "seat belt", "belt", "ceinture",
		},
		critical:   mechanicalCritical,
		onCritical: models.SeverityCritical,
		warning:    mechanicalWarning,
		fallback:   models.SeverityWarning,
	},
	{
		name:       "comfort",
		categories: []string{"interior", "interieur", "comfort", "confort", "seat", "siege", "climat", "clim", "hvac", "heating", "chauffage", "infotainment", "radio", "audio", "multimedia"},
		critical:   comfortCritical,
		onCritical: models.SeverityWarning,
		fallback:   models.SeverityMinor,
	},
}

var fallbackRule = rule{
	name:       "fallback",
	critical:   genericCritical,
	onCritical: models.SeverityCritical,
	warning:    genericWarning,
	fallback:   models.SeverityMinor,
}

// Classify assigns a severity to a defect from its category and free-text description.
// It is deterministic and case and accent insensitive.
func Classify(category, description string) models.Severity {
	cat := normalize(category)
	desc := normalize(description)
	return ruleFor(cat).apply(desc)
}

// RuleName returns the name of the rule that handles category, for diagnostics.
func RuleName(category string) string {
	return ruleFor(normalize(category)).name
}

func ruleFor(category string) rule {
	for _, r := range rules {
		if r.matches(category) {
			return r
		}
	}
	return fallbackRule
}

// EffectiveSeverity returns the defect's own severity when it is valid,
// otherwise the classifier's output.
func EffectiveSeverity(d models.Defect) models.Severity {
	if d.Severity.IsValid() {
		return d.Severity
	}
	return Classify(d.Category, d.Description)
}

// FillSeverities sets the severity of every defect that has none (or an unknown one).
func FillSeverities(defects []models.Defect) {
	for i := range defects {
		defects[i].Severity = EffectiveSeverity(defects[i])
	}
}

func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// containsAny reports whether any keyword occurs in s as whole words.
// A keyword may carry a short inflection ("leaking", "fissures", "cassee")
// but never sits inside a longer word ("cassette", "misfire").
func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if containsWord(s, k) {
			return true
		}
	}
	return false
}

func containsWord(s, kw string) bool {
	if kw == "" {
		return false
	}
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)
		if (start == 0 || !isWordByte(s[start-1])) && inflection(s[end:]) {
			return true
		}
		from = start + 1
	}
	return false
}

// inflection reports whether rest begins with a word ending that keeps the
// keyword's meaning, or with no word characters at all.
func inflection(rest string) bool {
	n := 0
	for n < len(rest) && isWordByte(rest[n]) {
		n++
	}
	switch rest[:n] {
	case "", "s", "e", "es", "ee", "ees", "d", "ed", "ing", "y", "ped", "ted":
		return true
	}
	return false
}

// Bytes of multi-byte runes count as word characters.
func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 0x80
}
