package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDAcceptsStringsAndNumbers(t *testing.T) {
	var items []WardrobeItem
	err := json.Unmarshal([]byte(`[{"id":1,"category":"t-shirt"},{"id":"abc","category":"jeans"}]`), &items)
	require.NoError(t, err)
	assert.Equal(t, ItemID("1"), items[0].ID)
	assert.Equal(t, ItemID("abc"), items[1].ID)

	var bad WardrobeItem
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &bad))
}

func TestCanonicalKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, CanonicalKey([]string{"id2", "id1"}), CanonicalKey([]string{"id1", "id2"}))
	assert.Equal(t, []string{"a", "b"}, CanonicalIDs([]string{"b", "a", "b"}))
}

func TestMergeRecentOutfits(t *testing.T) {
	stored := []RecentOutfit{{Items: []string{"2", "1"}, Occasion: "gym"}}
	extra := []RecentOutfit{{Items: []string{"1", "2"}}, {Items: []string{"3"}}, {Items: nil}}

	merged := MergeRecentOutfits(stored, extra)
	require.Len(t, merged, 2)
	assert.Equal(t, []string{"1", "2"}, merged[0].Items)
	assert.Equal(t, "gym", merged[0].Occasion)
	assert.Equal(t, []string{"3"}, merged[1].Items)
}

func TestPlanDailyLimit(t *testing.T) {
	cases := []struct {
		plan      Plan
		limit     int
		unlimited bool
	}{
		{PlanAnonymous, 1, false},
		{PlanFree, 2, false},
		{PlanStandard, 10, false},
		{PlanPremium, 0, true},
		{Plan("gold"), 2, false},
	}
	for _, c := range cases {
		limit, unlimited := c.plan.DailyLimit()
		assert.Equal(t, c.limit, limit, c.plan)
		assert.Equal(t, c.unlimited, unlimited, c.plan)
	}
	assert.True(t, ValidatePlanRaw("standard"))
	assert.False(t, ValidatePlanRaw("anonymous"))
	assert.False(t, ValidatePlanRaw("premiums"))
}

func TestUsageRolloverResetsBothCounters(t *testing.T) {
	yesterday := UsageRecord{Count: 2, Date: "2026-10-15", RewardedCount: 1}
	assert.Equal(t, UsageRecord{Date: "2026-10-16"}, yesterday.Rollover("2026-10-16"))

	today := UsageRecord{Count: 1, Date: "2026-10-16", RewardedCount: 1}
	assert.Equal(t, today, today.Rollover("2026-10-16"))
}

func TestLanguageAndGender(t *testing.T) {
	assert.Equal(t, TR, Language("TR").OrDefault())
	assert.Equal(t, EN, Language("de").OrDefault())
	assert.Equal(t, TR, Language(" tr ").OrDefault())
	assert.True(t, ValidateLanguageRaw("TR"))
	assert.True(t, ValidateLanguageRaw("En"))
	assert.False(t, ValidateLanguageRaw("de"))
	assert.Equal(t, GenderFemale, ResolveGender("", GenderFemale))
	assert.Equal(t, GenderUnisex, ResolveGender("", ""))
	assert.False(t, ValidateGenderRaw("males"))
}

func TestValidateOccasionRaw(t *testing.T) {
	assert.True(t, ValidateOccasionRaw("gym"))
	assert.True(t, ValidateOccasionRaw(" Business-Meeting "))
	assert.True(t, ValidateOccasionRaw("office_day"))
	assert.False(t, ValidateOccasionRaw(""))
	assert.False(t, ValidateOccasionRaw("gym; drop table"))
	assert.False(t, ValidateOccasionRaw("-gym"))
}

func TestNormalizeOccasionFoldsUnderscores(t *testing.T) {
	assert.Equal(t, "formal-dinner", NormalizeOccasion("formal_dinner"))
	assert.Equal(t, "business-meeting", NormalizeOccasion(" Business_Meeting "))
	assert.Equal(t, "gym", NormalizeOccasion("GYM"))
}
