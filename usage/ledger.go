// Package usage holds the daily quota ledger and the post-suggestion writer
// that charges usage and appends history.
package usage

import (
	"combinaapi/models"
	"combinaapi/store"
	"combinaapi/stylist"
	"context"
	"fmt"
	"math"
	"time"
)

type Ledger struct {
	Store     store.UserStore
	Anonymous AnonymousCounter
	Now       func() time.Time
}

func NewLedger(userStore store.UserStore, anonymous AnonymousCounter) *Ledger {
	return &Ledger{Store: userStore, Anonymous: anonymous, Now: time.Now}
}

// Today is the current usage date.
func (l *Ledger) Today() string {
	if l.Now == nil {
		return models.DateOf(time.Now())
	}
	return models.DateOf(l.Now())
}

// current returns the caller's plan and today's usage record.
func (l *Ledger) current(ctx context.Context, caller stylist.Caller) (models.Plan, models.UsageRecord, error) {
	today := l.Today()
	if caller.Anonymous {
		count, err := l.Anonymous.Count(ctx, caller.UserID, today)
		if err != nil {
			return "", models.UsageRecord{}, err
		}
		return models.PlanAnonymous, models.UsageRecord{Count: count, Date: today}, nil
	}
	user, err := l.Store.GetUser(ctx, caller.UserID)
	if err != nil {
		return "", models.UsageRecord{}, err
	}
	return user.Plan.OrDefault(), user.Usage.Rollover(today), nil
}

// Check denies the caller once today's count reaches the plan limit plus
// rewarded allowance. Unlimited plans always pass.
func (l *Ledger) Check(ctx context.Context, caller stylist.Caller) error {
	plan, usage, err := l.current(ctx, caller)
	if err != nil {
		return fmt.Errorf("failed to read usage: %w", err)
	}
	limit, unlimited := plan.DailyLimit()
	if unlimited {
		return nil
	}
	effective := limit + usage.RewardedCount
	if usage.Count >= effective {
		return &stylist.QuotaExceededError{Limit: effective}
	}
	return nil
}

func (l *Ledger) Status(ctx context.Context, caller stylist.Caller) (*models.UsageStatusOut, error) {
	plan, usage, err := l.current(ctx, caller)
	if err != nil {
		return nil, err
	}
	status := StatusFor(plan, usage)
	return &status, nil
}

// StatusFor renders a usage record that was already rolled over to today.
func StatusFor(plan models.Plan, usage models.UsageRecord) models.UsageStatusOut {
	status := models.UsageStatusOut{
		Plan:          plan,
		CurrentUsage:  usage.Count,
		RewardedUsage: usage.RewardedCount,
		Date:          usage.Date,
	}
	limit, unlimited := plan.DailyLimit()
	if unlimited {
		status.IsUnlimited = true
		status.DailyLimit = "unlimited"
		status.Remaining = "unlimited"
		return status
	}
	total := limit + usage.RewardedCount
	status.DailyLimit = limit
	status.Remaining = max(0, total-usage.Count)
	if total > 0 {
		status.PercentageUsed = math.Round(float64(usage.Count)/float64(total)*1000) / 10
	}
	return status
}

// GrantBonus adds one rewarded suggestion for today in a single transaction.
func (l *Ledger) GrantBonus(ctx context.Context, userID string) (*models.RewardGrantOut, error) {
	today := l.Today()
	user, err := l.Store.UpdateUser(ctx, userID, func(u *models.UserAccount) error {
		u.Usage = u.Usage.Rollover(today)
		u.Usage.RewardedCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &models.RewardGrantOut{NewRewardedCount: user.Usage.RewardedCount, Date: user.Usage.Date}, nil
}
