package models

type OutfitRequestIn struct {
	Occasion         string         `json:"occasion" validate:"required,max=64,occasion"`
	Gender           Gender         `json:"gender" validate:"omitempty,gender"`
	WeatherCondition string         `json:"weather_condition" validate:"max=64"`
	Language         Language       `json:"language" validate:"omitempty,language"`
	Plan             Plan           `json:"plan" validate:"omitempty,plan"`
	Wardrobe         []WardrobeItem `json:"wardrobe" validate:"dive"`
	RecentOutfits    []RecentOutfit `json:"recent_outfits"`
	// optional client correlation id, logged only; history ids are minted server side
	RequestID string `json:"request_id" validate:"max=64"`
}

type UsageStatusOut struct {
	Plan           Plan    `json:"plan"`
	CurrentUsage   int     `json:"current_usage"`
	RewardedUsage  int     `json:"rewarded_usage"`
	DailyLimit     any     `json:"daily_limit"` // int or "unlimited"
	Remaining      any     `json:"remaining"`   // int or "unlimited"
	IsUnlimited    bool    `json:"is_unlimited"`
	PercentageUsed float64 `json:"percentage_used"`
	Date           string  `json:"date"`
}

type ProfileOut struct {
	UserID          string         `json:"user_id"`
	FullName        string         `json:"fullname"`
	Email           string         `json:"email"`
	Gender          Gender         `json:"gender"`
	Plan            Plan           `json:"plan"`
	Usage           UsageStatusOut `json:"usage"`
	IsAnonymous     bool           `json:"is_anonymous"`
	ProfileComplete bool           `json:"profile_complete"`
}

type UserInfoUpdateIn struct {
	Name   string `json:"name" validate:"required,max=128"`
	Gender Gender `json:"gender" validate:"required,gender"`
}

type PlanUpdateIn struct {
	Plan Plan `json:"plan" validate:"required,plan"`
}

type RewardGrantOut struct {
	NewRewardedCount int    `json:"new_rewarded_count"`
	Date             string `json:"date"`
}
