package stylist

import (
	"combinaapi/models"
)

// FilterWardrobe drops items in a forbidden category. When every item would be
// dropped the original wardrobe is returned instead.
func FilterWardrobe(wardrobe []models.WardrobeItem, rules OccasionRuleSet) ([]models.WardrobeItem, error) {
	if len(wardrobe) == 0 {
		return nil, ErrEmptyWardrobe
	}
	if len(rules.Forbidden) == 0 {
		return wardrobe, nil
	}
	filtered := make([]models.WardrobeItem, 0, len(wardrobe))
	for _, item := range wardrobe {
		if rules.IsForbidden(item.Category) {
			continue
		}
		filtered = append(filtered, item)
	}
	if len(filtered) == 0 {
		return wardrobe, nil
	}
	return filtered, nil
}
