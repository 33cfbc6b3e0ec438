package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the calendar-day format of usage and history dates (UTC).
const DateLayout = "2006-01-02"

func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// UsageRecord is the per-day quota counter. Count and RewardedCount belong to Date.
type UsageRecord struct {
	Count         int    `json:"count" firestore:"count"`
	Date          string `json:"date" firestore:"date"`
	RewardedCount int    `json:"rewarded_count" firestore:"rewarded_count"`
}

// Rollover returns the record as it stands on today: a record dated on
// another day starts over with both counters at zero.
func (u UsageRecord) Rollover(today string) UsageRecord {
	if u.Date == today {
		return u
	}
	return UsageRecord{Date: today}
}

// UserAccount is the persisted user document. The primary key is the identity
// provider's subject so the same record can live in postgres or Firestore.
type UserAccount struct {
	ID        string    `gorm:"primarykey;size:128" json:"id" firestore:"-"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`

	FullName        string     `json:"fullname" firestore:"fullname"`
	Email           string     `json:"email" firestore:"email"`
	Gender          Gender     `gorm:"type:varchar(16)" json:"gender" firestore:"gender"`
	Plan            Plan       `gorm:"type:varchar(16);default:free" json:"plan" firestore:"plan"`
	PlanUpdatedAt   *time.Time `json:"plan_updated_at,omitempty" firestore:"plan_updated_at"`
	ProfileComplete bool       `json:"profile_complete" firestore:"profile_complete"`
	IsAnonymous     bool       `json:"is_anonymous" firestore:"is_anonymous"`

	Usage         UsageRecord                      `gorm:"embedded;embeddedPrefix:usage_" json:"usage" firestore:"usage"`
	RecentOutfits datatypes.JSONSlice[RecentOutfit] `gorm:"type:jsonb" json:"recent_outfits" firestore:"recent_outfits"`
}

// IsProfileComplete mirrors what the client requires before personalised suggestions.
func (u *UserAccount) IsProfileComplete() bool {
	return u.FullName != "" && u.Gender != "" && u.Gender != GenderUnisex
}
