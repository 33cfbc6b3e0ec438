package stylist

import (
	"combinaapi/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeAndRole(t *testing.T) {
	assert.Equal(t, TypeTop, TypeOf("T-Shirt "))
	assert.Equal(t, TypeSuits, TypeOf("suit-trousers"))
	assert.Equal(t, TypeBottom, RoleOf("suit-trousers"))
	assert.Equal(t, TypeOnePiece, RoleOf("tuxedo"))
	assert.Equal(t, TypeOther, TypeOf("spaceship"))
	assert.False(t, IsKnownCategory("spaceship"))
	assert.Contains(t, CategoriesOf(TypeShoes), "sneakers")
	assert.IsIncreasing(t, AllCategories())
}

func TestNewRuleBookValidatesLabels(t *testing.T) {
	_, err := NewRuleBook([]RuleEntry{{Occasion: "gym", Rules: OccasionRuleSet{
		Templates: []OutfitTemplate{{Name: "bad", Slots: []Slot{{Name: "top", Categories: []string{"spacesuit"}}}}},
	}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spacesuit")

	_, err = NewRuleBook([]RuleEntry{{Occasion: "gym", Rules: OccasionRuleSet{Forbidden: []string{"laser"}}}})
	assert.Error(t, err)

	_, err = NewRuleBook([]RuleEntry{{Occasion: "gym", Rules: OccasionRuleSet{
		Templates: []OutfitTemplate{{Name: "empty"}},
	}}})
	assert.Error(t, err)

	_, err = NewRuleBook([]RuleEntry{
		{Occasion: "gym", Gender: models.GenderMale},
		{Occasion: "GYM", Gender: models.GenderMale},
	})
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustRuleBook([]RuleEntry{{Occasion: ""}})
	})
}

func TestDefaultRuleBookLoads(t *testing.T) {
	rb := DefaultRuleBook()
	require.NotNil(t, rb)
	assert.Same(t, rb, DefaultRuleBook())
}

func TestLookupFallsBackToGenderAgnostic(t *testing.T) {
	rb := MustRuleBook([]RuleEntry{
		{Occasion: "wedding", Gender: models.GenderFemale, Rules: OccasionRuleSet{Forbidden: []string{"sneakers"}}},
		{Occasion: "wedding", Rules: OccasionRuleSet{Forbidden: []string{"hoodie"}}},
	})

	rules, ok := rb.Lookup("Wedding", models.GenderFemale)
	require.True(t, ok)
	assert.Equal(t, []string{"sneakers"}, rules.Forbidden)

	rules, ok = rb.Lookup("wedding", models.GenderMale)
	require.True(t, ok)
	assert.Equal(t, []string{"hoodie"}, rules.Forbidden)

	rules, ok = rb.Lookup("wedding", models.GenderUnisex)
	require.True(t, ok)
	assert.Equal(t, []string{"hoodie"}, rules.Forbidden)

	_, ok = rb.Lookup("picnic", models.GenderFemale)
	assert.False(t, ok)
}

func TestSummariesAreSorted(t *testing.T) {
	summaries := DefaultRuleBook().Summaries()
	require.NotEmpty(t, summaries)
	for i := 1; i < len(summaries); i++ {
		prev, cur := summaries[i-1], summaries[i]
		assert.True(t, prev.Occasion < cur.Occasion || (prev.Occasion == cur.Occasion && prev.Gender < cur.Gender))
	}
	for _, s := range summaries {
		if s.Occasion == "gym" && s.Gender == models.GenderMale {
			assert.Contains(t, s.RequiredAnyOf, "sneakers")
			assert.Contains(t, s.ForbiddenCategories, "heels")
		}
	}
}

func TestOccasionStyle(t *testing.T) {
	assert.Equal(t, "sportswear, casual", OccasionStyle("gym"))
	assert.Equal(t, "formal, elegant", OccasionStyle("Wedding"))
	assert.Equal(t, "casual", OccasionStyle("picnic"))
}
