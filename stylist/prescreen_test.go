package stylist

import (
	"combinaapi/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wardrobeOf(categories ...string) []models.WardrobeItem {
	items := make([]models.WardrobeItem, 0, len(categories))
	for i, c := range categories {
		items = append(items, models.WardrobeItem{ID: models.ItemID(string(rune('a' + i))), Name: c, Category: c})
	}
	return items
}

// top:{A,B} shoes:{X} OR one-piece:{C} shoes:{X}
func orAndRuleBook() *RuleBook {
	return MustRuleBook([]RuleEntry{{Occasion: "party", Rules: OccasionRuleSet{
		Templates: []OutfitTemplate{
			{Name: "separates", Slots: []Slot{
				{Name: "top", Categories: []string{"t-shirt", "blouse"}},
				{Name: "shoes", Categories: []string{"sneakers"}},
			}},
			{Name: "dress", Slots: []Slot{
				{Name: "one-piece", Categories: []string{"casual-dress"}},
				{Name: "shoes", Categories: []string{"sneakers"}},
			}},
		},
	}}})
}

func TestTemplateOrAndSemantics(t *testing.T) {
	rb := orAndRuleBook()

	assert.NoError(t, rb.Prescreen("party", models.GenderFemale, wardrobeOf("casual-dress", "sneakers")))
	assert.NoError(t, rb.Prescreen("party", models.GenderFemale, wardrobeOf("blouse", "sneakers")))

	err := rb.Prescreen("party", models.GenderFemale, wardrobeOf("t-shirt"))
	var infeasible *InfeasibleWardrobeError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, []string{"blouse", "casual-dress", "sneakers", "t-shirt"}, infeasible.Missing)
	assert.Equal(t, "party", infeasible.Occasion)
}

func TestPrescreenAcceptsUnderscoreOccasion(t *testing.T) {
	err := DefaultRuleBook().Prescreen("formal_dinner", models.GenderFemale, wardrobeOf("t-shirt", "jeans"))
	var infeasible *InfeasibleWardrobeError
	require.True(t, errors.As(err, &infeasible), "got %v", err)
	assert.NotEmpty(t, infeasible.Missing)
}

func TestPrescreenUnconstrainedOccasion(t *testing.T) {
	assert.NoError(t, orAndRuleBook().Prescreen("brunch", models.GenderMale, wardrobeOf("hoodie")))
}

func TestCheckFeasibilityWithoutTemplates(t *testing.T) {
	result := CheckFeasibility(OccasionRuleSet{Forbidden: []string{"heels"}}, map[string]bool{})
	assert.True(t, result.Feasible)
	assert.Empty(t, result.MissingCategories)
}

func TestWeddingRejectsCasualWardrobe(t *testing.T) {
	err := DefaultRuleBook().Prescreen("wedding", models.GenderFemale, wardrobeOf("t-shirt", "jeans", "hoodie", "sneakers"))
	var infeasible *InfeasibleWardrobeError
	require.True(t, errors.As(err, &infeasible))
	assert.Contains(t, infeasible.Missing, "evening-dress")
	assert.Contains(t, infeasible.Missing, "heels")
}

func TestGymAcceptsSportyWardrobe(t *testing.T) {
	assert.NoError(t, DefaultRuleBook().Prescreen("gym", models.GenderMale, wardrobeOf("t-shirt", "track-bottom", "sneakers")))
}

func TestFilterWardrobe(t *testing.T) {
	rules := OccasionRuleSet{Forbidden: []string{"heels", "blazer"}}

	filtered, err := FilterWardrobe(wardrobeOf("t-shirt", "heels", "Blazer"), rules)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "t-shirt", filtered[0].Category)

	// everything forbidden keeps the original
	original := wardrobeOf("heels", "blazer")
	filtered, err = FilterWardrobe(original, rules)
	require.NoError(t, err)
	assert.Equal(t, original, filtered)

	_, err = FilterWardrobe(nil, rules)
	assert.ErrorIs(t, err, ErrEmptyWardrobe)
}
