package stylist

import (
	"combinaapi/models"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptDenseRecords(t *testing.T) {
	wardrobe := []models.WardrobeItem{
		{ID: "1", Name: "White | tee\nbasic", Category: "t-shirt", Colors: []string{"white", "grey"}, Styles: []string{"casual"}},
		{ID: "2", Name: "Rocket", Category: "jetpack"},
		{ID: "3", Name: "Runners", Category: "sneakers", Colors: []string{"black"}},
	}
	prompt, err := PromptBuilder{}.Build(PromptInput{
		Occasion: "gym",
		Gender:   models.GenderMale,
		Weather:  "Hot and sunny",
		Language: models.TR,
		Plan:     models.PlanFree,
		Wardrobe: wardrobe,
		RecentOutfits: []models.RecentOutfit{
			{Items: []string{"3", "1"}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt.Text, "1|White / tee basic|t-shirt|white,grey|casual\n")
	assert.Contains(t, prompt.Text, "3|Runners|sneakers|black|\n")
	assert.NotContains(t, prompt.Text, "Rocket")
	assert.Contains(t, prompt.Text, "Turkish")
	assert.Contains(t, prompt.Text, "Weather is hot")
	assert.Contains(t, prompt.Text, "1,3\n")
	assert.NotContains(t, prompt.Text, "search_queries")
	assert.False(t, prompt.Premium)
	require.Len(t, prompt.Items, 2)
	assert.Equal(t, models.ItemID("1"), prompt.Items[0].ID)
}

func TestPromptPremiumAsksForSearchQueries(t *testing.T) {
	prompt, err := PromptBuilder{}.Build(PromptInput{
		Occasion: "office-day",
		Plan:     models.PlanPremium,
		Wardrobe: wardrobeOf("shirt", "trousers", "loafers"),
	})
	require.NoError(t, err)
	assert.True(t, prompt.Premium)
	assert.Contains(t, prompt.Text, `"search_queries":[{"title":"","query":""}]`)
	assert.Contains(t, prompt.Text, "exactly 3 search_queries")
	assert.Contains(t, prompt.Text, "unisex outfit")
}

func TestPromptEmptyAfterUnknownCategories(t *testing.T) {
	_, err := PromptBuilder{}.Build(PromptInput{Occasion: "gym", Wardrobe: wardrobeOf("jetpack")})
	assert.ErrorIs(t, err, ErrEmptyWardrobe)
}

func TestPromptCapsItemsAcrossRoles(t *testing.T) {
	var wardrobe []models.WardrobeItem
	for i := range 20 {
		wardrobe = append(wardrobe, models.WardrobeItem{ID: models.ItemID(fmt.Sprintf("t%d", i)), Category: "t-shirt"})
	}
	wardrobe = append(wardrobe,
		models.WardrobeItem{ID: "b1", Category: "jeans"},
		models.WardrobeItem{ID: "s1", Category: "sneakers"},
	)

	prompt, err := PromptBuilder{MaxItems: 5}.Build(PromptInput{Occasion: "walk", Wardrobe: wardrobe})
	require.NoError(t, err)
	require.Len(t, prompt.Items, 5)
	var ids []string
	for _, item := range prompt.Items {
		ids = append(ids, string(item.ID))
	}
	assert.Contains(t, ids, "b1")
	assert.Contains(t, ids, "s1")
	assert.Equal(t, 5, strings.Count(prompt.Text, "|t-shirt|")+strings.Count(prompt.Text, "|jeans|")+strings.Count(prompt.Text, "|sneakers|"))
}

func TestExclusionClause(t *testing.T) {
	assert.Empty(t, ExclusionClause(nil, nil))

	clause := ExclusionClause([][]string{{"3", "1"}}, []string{"3", "1"})
	assert.Contains(t, clause, "Do NOT use this exact combination again: 1,3")
	assert.Contains(t, clause, "Avoid these ids entirely if any alternative exists: 1,3")
}

func TestWeatherGuidance(t *testing.T) {
	assert.Contains(t, WeatherGuidance("Snowy, -3C"), "cold")
	assert.Contains(t, WeatherGuidance("light rain"), "cool")
	assert.Contains(t, WeatherGuidance("Partly cloudy"), "mild")
	assert.NotContains(t, WeatherGuidance("mild"), "avoid")
	assert.Equal(t, "Dress for the stated weather; add outerwear only if it helps.", WeatherGuidance(""))
}
