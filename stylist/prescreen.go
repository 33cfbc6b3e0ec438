package stylist

import (
	"combinaapi/models"
)

type FeasibilityResult struct {
	Feasible bool
	// union of every template category, set only when infeasible
	MissingCategories []string
}

// WardrobeCategories returns the set of normalized category labels present.
func WardrobeCategories(wardrobe []models.WardrobeItem) map[string]bool {
	categories := make(map[string]bool, len(wardrobe))
	for _, item := range wardrobe {
		categories[normalizeCategory(item.Category)] = true
	}
	return categories
}

func templateSatisfiable(template OutfitTemplate, categories map[string]bool) bool {
	for _, slot := range template.Slots {
		filled := false
		for _, c := range slot.Categories {
			if categories[c] {
				filled = true
				break
			}
		}
		if !filled {
			return false
		}
	}
	return true
}

// CheckFeasibility reports whether any template of rules can be filled from
// categories. A rule set without templates places no constraint.
func CheckFeasibility(rules OccasionRuleSet, categories map[string]bool) FeasibilityResult {
	if len(rules.Templates) == 0 {
		return FeasibilityResult{Feasible: true}
	}
	for _, template := range rules.Templates {
		if templateSatisfiable(template, categories) {
			return FeasibilityResult{Feasible: true}
		}
	}
	return FeasibilityResult{MissingCategories: templateCategories(rules)}
}

// Prescreen rejects a wardrobe that cannot satisfy the occasion before any
// generative call is made.
func (rb *RuleBook) Prescreen(occasion string, gender models.Gender, wardrobe []models.WardrobeItem) error {
	rules, ok := rb.Lookup(occasion, gender)
	if !ok {
		return nil
	}
	result := CheckFeasibility(rules, WardrobeCategories(wardrobe))
	if result.Feasible {
		return nil
	}
	return &InfeasibleWardrobeError{Occasion: occasionLabel(occasion), Missing: result.MissingCategories}
}
