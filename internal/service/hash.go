package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"golang.org/x/crypto/blake2b"
)

// ProfileHash fingerprints a profile. Two profiles
// with the same declared content and order hash equally.
func ProfileHash(prefs *safety.DietPreferences) (string, error) {
	if prefs == nil {
		prefs = &safety.DietPreferences{}
	}
	canonical := safety.DietPreferences{
		AvoidFoods:        nonNilStrings(prefs.AvoidFoods),
		EmbraceFoods:      nonNilStrings(prefs.EmbraceFoods),
		MedicalConditions: prefs.MedicalConditions,
		SeverityLevels:    prefs.SeverityLevels,
		TriggerFoods:      prefs.TriggerFoods,
	}
	if canonical.MedicalConditions == nil {
		canonical.MedicalConditions = []safety.MedicalCondition{}
	}
	if canonical.TriggerFoods == nil {
		canonical.TriggerFoods = []safety.TriggerFood{}
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// VerdictHash fingerprints the inputs of one validation: the recipe's
// ingredient list and the canonical profile. Recipe IDs are caller supplied,
// so a cached verdict is only reused for the exact ingredients it was computed
// from.
func VerdictHash(recipe *safety.Recipe, prefs *safety.DietPreferences) (string, error) {
	profile, err := ProfileHash(prefs)
	if err != nil {
		return "", err
	}
	var ingredients []string
	if recipe != nil {
		ingredients = recipe.Ingredients
	}
	data, err := json.Marshal(nonNilStrings(ingredients))
	if err != nil {
		return "", fmt.Errorf("failed to encode ingredients: %w", err)
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	h.Write([]byte(profile))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
