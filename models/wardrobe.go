package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ItemID is an opaque wardrobe identifier. Clients send it either as a JSON
// string or a JSON number; it is always handled as a string.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or a number: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

type WardrobeItem struct {
	ID       ItemID   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Category string   `json:"category" validate:"required"`
	Colors   []string `json:"colors"` // first is primary
	Styles   []string `json:"styles"`
	ImageKey string   `json:"image_key,omitempty"`
}

// RecentOutfit is one history entry. Items is kept canonical (sorted).
type RecentOutfit struct {
	Items     []string `json:"items" firestore:"items"`
	Occasion  string   `json:"occasion,omitempty" firestore:"occasion"`
	Weather   string   `json:"weather,omitempty" firestore:"weather"`
	Date      string   `json:"date,omitempty" firestore:"date"`
	RequestID string   `json:"request_id,omitempty" firestore:"request_id"`
}

// CanonicalIDs returns a sorted, deduplicated copy of ids.
func CanonicalIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// CanonicalKey joins the canonical ids so that set-equal outfits share a key.
func CanonicalKey(ids []string) string {
	return strings.Join(CanonicalIDs(ids), ",")
}

func (o RecentOutfit) Key() string {
	return CanonicalKey(o.Items)
}

// MergeRecentOutfits returns stored followed by any extra entries not already
// present, deduplicated by canonical key.
func MergeRecentOutfits(stored, extra []RecentOutfit) []RecentOutfit {
	seen := make(map[string]bool, len(stored)+len(extra))
	merged := make([]RecentOutfit, 0, len(stored)+len(extra))
	for _, o := range append(slices.Clone(stored), extra...) {
		if len(o.Items) == 0 {
			continue
		}
		key := o.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		o.Items = CanonicalIDs(o.Items)
		merged = append(merged, o)
	}
	return merged
}

type SuggestedItem struct {
	ID       ItemID  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	ImageURL *string `json:"image_url,omitempty"`
}

type PinterestLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type OutfitResponse struct {
	Items          []SuggestedItem `json:"items"`
	Description    string          `json:"description"`
	SuggestionTip  string          `json:"suggestion_tip"`
	PinterestLinks []PinterestLink `json:"pinterest_links,omitempty"`
	// set when the suggestion succeeded but usage/history could not be saved
	Warning string `json:"warning,omitempty"`
}

// IDs returns the item ids in response order.
func (r OutfitResponse) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, string(item.ID))
	}
	return ids
}
