package usage

import (
	"combinaapi/models"
	"combinaapi/store"
	"combinaapi/stylist"
	"context"
	"errors"
	"slices"
	"time"
)

const DefaultHistoryLength = 5

var errAlreadyRecorded = errors.New("history entry already recorded")

// HistoryWriter charges one use per accepted suggestion and keeps a bounded,
// newest-first history of outfits.
type HistoryWriter struct {
	Store     store.UserStore
	Anonymous AnonymousCounter
	MaxLength int
	Now       func() time.Time
}

func NewHistoryWriter(userStore store.UserStore, anonymous AnonymousCounter, maxLength int) *HistoryWriter {
	if maxLength <= 0 {
		maxLength = DefaultHistoryLength
	}
	return &HistoryWriter{Store: userStore, Anonymous: anonymous, MaxLength: maxLength, Now: time.Now}
}

func (w *HistoryWriter) Record(ctx context.Context, caller stylist.Caller, entry models.RecentOutfit) error {
	if caller.Anonymous {
		_, err := w.Anonymous.Increment(ctx, caller.UserID, w.today())
		return err
	}
	return w.RecordUser(ctx, caller.UserID, entry)
}

// RecordUser increments today's count and pushes entry in one transaction.
// Replaying an entry already in the history (same request id and items) is a
// no-op, so retries never charge twice.
func (w *HistoryWriter) RecordUser(ctx context.Context, userID string, entry models.RecentOutfit) error {
	today := w.today()
	entry.Items = models.CanonicalIDs(entry.Items)
	maxLength := w.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultHistoryLength
	}

	_, err := w.Store.UpdateUser(ctx, userID, func(u *models.UserAccount) error {
		if entry.RequestID != "" && slices.ContainsFunc(u.RecentOutfits, func(o models.RecentOutfit) bool {
			return o.RequestID == entry.RequestID && o.Key() == entry.Key()
		}) {
			return errAlreadyRecorded
		}
		u.Usage = u.Usage.Rollover(today)
		u.Usage.Count++
		history := append([]models.RecentOutfit{entry}, u.RecentOutfits...)
		if len(history) > maxLength {
			history = history[:maxLength]
		}
		u.RecentOutfits = history
		return nil
	})
	if errors.Is(err, errAlreadyRecorded) {
		return nil
	}
	return err
}

func (w *HistoryWriter) today() string {
	if w.Now == nil {
		return models.DateOf(time.Now())
	}
	return models.DateOf(w.Now())
}
