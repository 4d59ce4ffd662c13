package safety

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Severity is the escalation level attached to a trigger food or medical condition.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// SeverityClassMedical marks a severity-level term as tied to a diagnosed
// medical restriction.
const SeverityClassMedical = "medical"

// CustomConditionName is the condition name used when the user supplies their own label.
const CustomConditionName = "Custom"

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Nutrition is carried through validation but never consulted.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe is the read-only input to validation.
type Recipe struct {
	ID          string     `json:"id"`
	Title       string     `json:"title,omitempty"`
	Ingredients []string   `json:"ingredients"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
}

// MedicalCondition is a diagnosed condition declared on a profile.
type MedicalCondition struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Severity   Severity `json:"severity"`
	CustomName string   `json:"customName,omitempty"`
}

// DisplayName returns the user-supplied label for custom conditions.
func (c MedicalCondition) DisplayName() string {
	if c.Name == CustomConditionName && strings.TrimSpace(c.CustomName) != "" {
		return c.CustomName
	}
	return c.Name
}

// TriggerFood is a food known to aggravate a named condition.
type TriggerFood struct {
	Name      string   `json:"name"`
	Condition string   `json:"condition"`
	Severity  Severity `json:"severity"`
	UserAdded bool     `json:"userAdded"`
}

// DietPreferences is a user's declared restriction profile. Any nil
// collection means "no restrictions of that kind". Decoding is lenient: a
// collection of the wrong JSON type decodes as empty and malformed elements
// are dropped, so a damaged profile still yields a verdict.
type DietPreferences struct {
	AvoidFoods        []string           `json:"avoidFoods"`
	EmbraceFoods      []string           `json:"embraceFoods"`
	MedicalConditions []MedicalCondition `json:"medicalConditions"`
	SeverityLevels    SeverityLevels     `json:"severityLevels"`
	TriggerFoods      []TriggerFood      `json:"triggerFoods"`
}

func (p *DietPreferences) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}

	var out DietPreferences
	for key, raw := range fields {
		switch {
		case strings.EqualFold(key, "avoidFoods"):
			out.AvoidFoods = decodeList[string](raw)
		case strings.EqualFold(key, "embraceFoods"):
			out.EmbraceFoods = decodeList[string](raw)
		case strings.EqualFold(key, "medicalConditions"):
			out.MedicalConditions = decodeList[MedicalCondition](raw)
		case strings.EqualFold(key, "severityLevels"):
			// SeverityLevels decoding never fails on well-formed JSON.
			_ = json.Unmarshal(raw, &out.SeverityLevels)
		case strings.EqualFold(key, "triggerFoods"):
			out.TriggerFoods = decodeList[TriggerFood](raw)
		}
	}
	*p = out
	return nil
}

// decodeList decodes a JSON array element by element, dropping null and
// mistyped elements. Anything other than an array yields nil.
func decodeList[T any](raw json.RawMessage) []T {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil
	}
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// MedicalTerms returns the severity-level terms whose class is exactly
// "medical", in declaration order.
func (p *DietPreferences) MedicalTerms() []string {
	if p == nil {
		return nil
	}
	var terms []string
	for _, lvl := range p.SeverityLevels {
		if lvl.Class == SeverityClassMedical {
			terms = append(terms, lvl.Term)
		}
	}
	return terms
}

// Tier separates hard blocks from soft flags.
type Tier int

const (
	TierBlocker Tier = iota
	TierWarning
)

func (t Tier) String() string {
	if t == TierBlocker {
		return "blocker"
	}
	return "warning"
}

// Blocker is a finding that makes a recipe unsafe to show.
type Blocker struct {
	Ingredient   string   `json:"ingredient"`
	Reason       string   `json:"reason"`
	Rule         string   `json:"rule"`
	Term         string   `json:"term"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Warning flags a concern without blocking display.
type Warning struct {
	Ingredient   string   `json:"ingredient"`
	Reason       string   `json:"reason"`
	Severity     Severity `json:"severity"`
	Rule         string   `json:"rule"`
	Term         string   `json:"term"`
	Condition    string   `json:"condition"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// SafetyVerdict is the result of validating one recipe against one profile.
type SafetyVerdict struct {
	IsSafe   bool      `json:"isSafe"`
	Blockers []Blocker `json:"blockers"`
	Warnings []Warning `json:"warnings"`
}

// IngredientsFlagged returns the number of ingredients carrying any finding.
func (v *SafetyVerdict) IngredientsFlagged() int {
	return len(v.Blockers) + len(v.Warnings)
}
