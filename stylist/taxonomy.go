package stylist

import (
	"slices"
	"strings"
)

// CategoryType groups category labels. Structural rules (one item per type,
// top+bottom or one-piece, shoes) are expressed over types, not labels.
type CategoryType string

const (
	TypeTop         CategoryType = "top"
	TypeBottom      CategoryType = "bottom"
	TypeOnePiece    CategoryType = "one-piece"
	TypeOuterwear   CategoryType = "outerwear"
	TypeShoes       CategoryType = "shoes"
	TypeBags        CategoryType = "bags"
	TypeAccessories CategoryType = "accessories"
	TypeSuits       CategoryType = "suits"
	TypeOther       CategoryType = "other"
)

// structural order used when serializing and when trimming large wardrobes
var typeOrder = []CategoryType{
	TypeTop, TypeBottom, TypeOnePiece, TypeSuits, TypeShoes, TypeOuterwear, TypeBags, TypeAccessories,
}

var categoryTypes = map[CategoryType][]string{
	TypeTop: {
		"t-shirt", "blouse", "shirt", "sweater", "pullover", "sweatshirt", "hoodie", "track-top",
		"crop-top", "tank-top", "bodysuit", "vest", "tunic", "bralette", "polo-shirt",
	},
	TypeBottom: {
		"jeans", "trousers", "linen-trousers", "leggings", "track-bottom", "mini-skirt", "midi-skirt",
		"long-skirt", "denim-shorts", "fabric-shorts", "athletic-shorts", "bermuda-shorts", "capri-pants",
	},
	TypeOnePiece: {
		"casual-dress", "evening-dress", "sporty-dress", "modest-dress", "modest-evening-dress", "jumpsuit", "romper",
	},
	TypeOuterwear: {
		"puffer-coat", "raincoat", "denim-jacket", "leather-jacket", "fabric-jacket", "bomber-jacket",
		"overcoat", "coat", "trenchcoat", "blazer", "cardigan", "abaya",
	},
	TypeShoes: {
		"sneakers", "casual-sport-shoes", "heels", "boots", "tall-boots", "flats", "loafers", "bootie",
		"sandals", "slippers", "classic-shoes",
	},
	TypeBags: {
		"handbag", "backpack", "shoulder-bag", "briefcase", "crossbody-bag",
	},
	TypeAccessories: {
		"necklace", "earrings", "ring", "bracelet", "scarf", "hijab", "shawl", "sunglasses", "belt", "hat", "watch", "tie",
	},
	TypeSuits: {
		"suit-jacket", "suit-trousers", "tuxedo",
	},
}

// suit pieces fill the same structural role as their everyday counterparts
var suitRoles = map[string]CategoryType{
	"suit-jacket":   TypeOuterwear,
	"suit-trousers": TypeBottom,
	"tuxedo":        TypeOnePiece,
}

var categoryIndex = func() map[string]CategoryType {
	index := make(map[string]CategoryType)
	for t, labels := range categoryTypes {
		for _, label := range labels {
			index[label] = t
		}
	}
	return index
}()

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// TypeOf returns the category type of a label, TypeOther when unknown.
func TypeOf(category string) CategoryType {
	if t, ok := categoryIndex[normalizeCategory(category)]; ok {
		return t
	}
	return TypeOther
}

// RoleOf is the structural role of a label: the type, except suit pieces
// which count as outerwear, bottom or one-piece.
func RoleOf(category string) CategoryType {
	c := normalizeCategory(category)
	if role, ok := suitRoles[c]; ok {
		return role
	}
	return TypeOf(c)
}

func IsKnownCategory(category string) bool {
	_, ok := categoryIndex[normalizeCategory(category)]
	return ok
}

// CategoriesOf returns the labels of a type, sorted.
func CategoriesOf(t CategoryType) []string {
	labels := slices.Clone(categoryTypes[t])
	slices.Sort(labels)
	return labels
}

// AllCategories returns every known label, sorted.
func AllCategories() []string {
	labels := make([]string, 0, len(categoryIndex))
	for label := range categoryIndex {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}
