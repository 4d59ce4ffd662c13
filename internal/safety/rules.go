package safety

import "fmt"

const (
	RuleAvoid   = "avoid"
	RuleMedical = "medical"
	RuleTrigger = "trigger"
)

// finding is what a rule reports for a single ingredient.
type finding struct {
	rule      string
	tier      Tier
	term      string
	reason    string
	severity  Severity
	condition string
}

// Rule evaluates one restriction source against one ingredient and reports
// at most one finding. Within a rule the first term in declaration order wins.
type Rule interface {
	Name() string
	Tier() Tier
	Evaluate(m Matcher, ingredient string) (finding, bool)
}

type avoidRule struct {
	terms []string
}

func (avoidRule) Name() string { return RuleAvoid }
func (avoidRule) Tier() Tier   { return TierBlocker }

func (r avoidRule) Evaluate(m Matcher, ingredient string) (finding, bool) {
	for _, term := range r.terms {
		if m.Matches(ingredient, term) {
			return finding{
				rule:   RuleAvoid,
				tier:   TierBlocker,
				term:   term,
				reason: "explicit avoid-food match",
			}, true
		}
	}
	return finding{}, false
}

type medicalRule struct {
	terms []string
}

func (medicalRule) Name() string { return RuleMedical }
func (medicalRule) Tier() Tier   { return TierBlocker }

func (r medicalRule) Evaluate(m Matcher, ingredient string) (finding, bool) {
	for _, term := range r.terms {
		if m.Matches(ingredient, term) {
			return finding{
				rule:   RuleMedical,
				tier:   TierBlocker,
				term:   term,
				reason: fmt.Sprintf("contains %q, a medical restriction", term),
			}, true
		}
	}
	return finding{}, false
}

type triggerRule struct {
	triggers []TriggerFood
}

func (triggerRule) Name() string { return RuleTrigger }
func (triggerRule) Tier() Tier   { return TierWarning }

func (r triggerRule) Evaluate(m Matcher, ingredient string) (finding, bool) {
	for _, t := range r.triggers {
		if m.Matches(ingredient, t.Name) {
			return finding{
				rule:      RuleTrigger,
				tier:      TierWarning,
				term:      t.Name,
				reason:    fmt.Sprintf("contains %q which can trigger %s", t.Name, t.Condition),
				severity:  t.Severity,
				condition: t.Condition,
			}, true
		}
	}
	return finding{}, false
}

// rulesFor builds the ordered rule list for a profile. Blocker-tier rules
// always precede warning-tier rules.
func rulesFor(prefs *DietPreferences) []Rule {
	if prefs == nil {
		return nil
	}
	return []Rule{
		avoidRule{terms: prefs.AvoidFoods},
		medicalRule{terms: prefs.MedicalTerms()},
		triggerRule{triggers: prefs.TriggerFoods},
	}
}

// blockingRulesFor is rulesFor without the warning tier.
func blockingRulesFor(prefs *DietPreferences) []Rule {
	var out []Rule
	for _, r := range rulesFor(prefs) {
		if r.Tier() == TierBlocker {
			out = append(out, r)
		}
	}
	return out
}
