package safety

// SearchConflict is an embraced term that a restriction would filter out.
type SearchConflict struct {
	Term          string `json:"term"`
	ConflictsWith string `json:"conflictsWith"`
	Source        string `json:"source"`
	// Blocking is false when the restriction only produces warnings.
	Blocking bool `json:"blocking"`
}

// SearchConstraints reports embrace/restriction conflicts found before a
// search is issued.
type SearchConstraints struct {
	Valid     bool             `json:"valid"`
	Conflicts []SearchConflict `json:"conflicts"`
}

// ConflictingTerms returns each conflicting embrace term once, in
// declaration order.
func (c SearchConstraints) ConflictingTerms() []string {
	seen := make(map[string]struct{}, len(c.Conflicts))
	terms := []string{}
	for _, conflict := range c.Conflicts {
		if _, ok := seen[conflict.Term]; ok {
			continue
		}
		seen[conflict.Term] = struct{}{}
		terms = append(terms, conflict.Term)
	}
	return terms
}

// ValidateSearchConstraints validates with the default matcher.
func ValidateSearchConstraints(prefs *DietPreferences) SearchConstraints {
	return defaultValidator.ValidateSearchConstraints(prefs)
}

// ValidateSearchConstraints flags every embraced term that contains a
// restricted term (avoid, medical or trigger). Such a search would have its
// results blocked or flagged by ValidateRecipeSafety.
func (v *Validator) ValidateSearchConstraints(prefs *DietPreferences) SearchConstraints {
	result := SearchConstraints{Valid: true, Conflicts: []SearchConflict{}}
	if prefs == nil {
		return result
	}

	type restricted struct {
		term     string
		source   string
		blocking bool
	}
	var restrictions []restricted
	for _, t := range prefs.AvoidFoods {
		restrictions = append(restrictions, restricted{t, RuleAvoid, true})
	}
	for _, t := range prefs.MedicalTerms() {
		restrictions = append(restrictions, restricted{t, RuleMedical, true})
	}
	for _, t := range prefs.TriggerFoods {
		restrictions = append(restrictions, restricted{t.Name, RuleTrigger, false})
	}

	for _, embrace := range prefs.EmbraceFoods {
		for _, r := range restrictions {
			if !v.matcher.Matches(embrace, r.term) {
				continue
			}
			result.Conflicts = append(result.Conflicts, SearchConflict{
				Term:          embrace,
				ConflictsWith: r.term,
				Source:        r.source,
				Blocking:      r.blocking,
			})
		}
	}

	result.Valid = len(result.Conflicts) == 0
	return result
}
