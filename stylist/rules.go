package stylist

import (
	"combinaapi/models"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

type Slot struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// OutfitTemplate is satisfied when every slot can be filled (AND across slots).
type OutfitTemplate struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// OccasionRuleSet is satisfied when any template is (OR across templates).
type OccasionRuleSet struct {
	Templates []OutfitTemplate `json:"templates"`
	Forbidden []string         `json:"forbidden_categories"`
}

func (r OccasionRuleSet) IsForbidden(category string) bool {
	return slices.Contains(r.Forbidden, normalizeCategory(category))
}

// RuleEntry binds a rule set to an occasion. An empty Gender applies to every
// gender without a dedicated entry.
type RuleEntry struct {
	Occasion string
	Gender   models.Gender
	Rules    OccasionRuleSet
}

type ruleKey struct {
	occasion string
	gender   models.Gender
}

type RuleBook struct {
	rules map[ruleKey]OccasionRuleSet
	order []ruleKey
}

// NewRuleBook validates entries: every category label must be known, every
// template must have at least one slot and no (occasion, gender) may repeat.
func NewRuleBook(entries []RuleEntry) (*RuleBook, error) {
	rb := &RuleBook{rules: make(map[ruleKey]OccasionRuleSet, len(entries))}
	for _, entry := range entries {
		key := ruleKey{occasion: models.NormalizeOccasion(entry.Occasion), gender: entry.Gender}
		if key.occasion == "" {
			return nil, fmt.Errorf("rule entry without occasion")
		}
		if _, exists := rb.rules[key]; exists {
			return nil, fmt.Errorf("duplicate rules for %s/%s", key.occasion, key.gender)
		}
		rules, err := normalizeRuleSet(entry.Rules)
		if err != nil {
			return nil, fmt.Errorf("rules for %s/%s: %w", key.occasion, key.gender, err)
		}
		rb.rules[key] = rules
		rb.order = append(rb.order, key)
	}
	return rb, nil
}

func MustRuleBook(entries []RuleEntry) *RuleBook {
	rb, err := NewRuleBook(entries)
	if err != nil {
		panic(err)
	}
	return rb
}

func normalizeRuleSet(rules OccasionRuleSet) (OccasionRuleSet, error) {
	out := OccasionRuleSet{}
	for _, template := range rules.Templates {
		if len(template.Slots) == 0 {
			return out, fmt.Errorf("template %q has no slots", template.Name)
		}
		normalized := OutfitTemplate{Name: template.Name}
		for _, slot := range template.Slots {
			if len(slot.Categories) == 0 {
				return out, fmt.Errorf("template %q slot %q accepts no category", template.Name, slot.Name)
			}
			categories, err := normalizeLabels(slot.Categories)
			if err != nil {
				return out, fmt.Errorf("template %q slot %q: %w", template.Name, slot.Name, err)
			}
			normalized.Slots = append(normalized.Slots, Slot{Name: slot.Name, Categories: categories})
		}
		out.Templates = append(out.Templates, normalized)
	}
	forbidden, err := normalizeLabels(rules.Forbidden)
	if err != nil {
		return out, fmt.Errorf("forbidden: %w", err)
	}
	out.Forbidden = forbidden
	return out, nil
}

func normalizeLabels(labels []string) ([]string, error) {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		l := normalizeCategory(label)
		if !IsKnownCategory(l) {
			return nil, fmt.Errorf("unknown category %q", label)
		}
		out = append(out, l)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Lookup returns the rule set for the occasion and gender, falling back to
// the gender-agnostic entry. ok is false when the occasion is unconstrained.
func (rb *RuleBook) Lookup(occasion string, gender models.Gender) (OccasionRuleSet, bool) {
	occasion = models.NormalizeOccasion(occasion)
	if gender != "" && gender != models.GenderUnisex {
		if rules, ok := rb.rules[ruleKey{occasion, gender}]; ok {
			return rules, true
		}
	}
	rules, ok := rb.rules[ruleKey{occasion, ""}]
	return rules, ok
}

type OccasionSummary struct {
	Occasion            string           `json:"occasion"`
	Gender              models.Gender    `json:"gender,omitempty"`
	Templates           []OutfitTemplate `json:"templates"`
	ForbiddenCategories []string         `json:"forbidden_categories"`
	RequiredAnyOf       []string         `json:"required_any_of"`
}

// Summaries lists every rule entry sorted by occasion then gender.
func (rb *RuleBook) Summaries() []OccasionSummary {
	keys := slices.Clone(rb.order)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].occasion != keys[j].occasion {
			return keys[i].occasion < keys[j].occasion
		}
		return keys[i].gender < keys[j].gender
	})
	summaries := make([]OccasionSummary, 0, len(keys))
	for _, key := range keys {
		rules := rb.rules[key]
		summaries = append(summaries, OccasionSummary{
			Occasion:            key.occasion,
			Gender:              key.gender,
			Templates:           rules.Templates,
			ForbiddenCategories: rules.Forbidden,
			RequiredAnyOf:       templateCategories(rules),
		})
	}
	return summaries
}

func templateCategories(rules OccasionRuleSet) []string {
	var all []string
	for _, template := range rules.Templates {
		for _, slot := range template.Slots {
			all = append(all, slot.Categories...)
		}
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// Known occasion labels offered by the client. Occasions without a rule entry
// are unconstrained.
var Occasions = []string{
	"daily-errands", "friends-gathering", "weekend-brunch", "coffee-date", "shopping", "walk",
	"office-day", "business-meeting", "business-lunch", "networking", "university",
	"wedding", "special-event", "celebration", "formal-dinner", "dinner-date", "birthday-party",
	"concert", "night-out", "house-party",
	"gym", "yoga-pilates", "outdoor-sports", "hiking",
	"travel", "weekend-getaway", "holiday", "festival", "sightseeing",
}

var (
	sportyTops    = []string{"t-shirt", "tank-top", "track-top", "sweatshirt", "hoodie", "polo-shirt"}
	sportyBottoms = []string{"track-bottom", "athletic-shorts", "leggings"}
	sportyShoes   = []string{"sneakers", "casual-sport-shoes"}

	dressyShoesFemale = []string{"heels", "flats", "classic-shoes", "bootie"}
	dressyShoesMale   = []string{"classic-shoes", "loafers"}

	formalTopsFemale    = []string{"blouse", "shirt", "bodysuit"}
	formalBottomsFemale = []string{"midi-skirt", "long-skirt", "trousers", "linen-trousers"}
	formalBottomsMale   = []string{"suit-trousers", "trousers"}

	officeTops    = []string{"shirt", "blouse", "polo-shirt", "sweater", "pullover"}
	officeBottoms = []string{"trousers", "linen-trousers", "suit-trousers", "midi-skirt", "long-skirt", "jeans"}
	officeShoes   = []string{"classic-shoes", "loafers", "flats", "heels", "bootie", "boots", "sneakers"}

	sportswearOnly = []string{
		"track-top", "track-bottom", "athletic-shorts", "sporty-dress", "casual-sport-shoes", "slippers",
	}
	formalOnly = []string{
		"evening-dress", "modest-evening-dress", "tuxedo", "suit-jacket", "suit-trousers", "heels",
		"classic-shoes", "loafers", "tie", "blazer", "briefcase",
	}
)

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func defaultRuleEntries() []RuleEntry {
	gymForbidden := concat(formalOnly, []string{"jeans", "flats", "bootie", "boots", "tall-boots", "sandals", "leather-jacket", "overcoat", "coat", "trenchcoat", "mini-skirt", "midi-skirt", "long-skirt", "casual-dress", "modest-dress"})
	weddingForbidden := concat(sportswearOnly, []string{"hoodie", "sweatshirt", "leggings", "denim-shorts", "athletic-shorts", "sneakers", "puffer-coat", "raincoat", "backpack"})
	businessForbidden := concat(sportswearOnly, []string{"hoodie", "crop-top", "tank-top", "bralette", "denim-shorts", "mini-skirt", "sandals", "romper"})

	return []RuleEntry{
		{Occasion: "gym", Gender: models.GenderMale, Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "training", Slots: []Slot{
					{Name: "top", Categories: sportyTops},
					{Name: "bottom", Categories: sportyBottoms},
					{Name: "shoes", Categories: sportyShoes},
				}},
			},
			Forbidden: gymForbidden,
		}},
		{Occasion: "gym", Gender: models.GenderFemale, Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "training", Slots: []Slot{
					{Name: "top", Categories: concat(sportyTops, []string{"crop-top", "bralette", "bodysuit"})},
					{Name: "bottom", Categories: sportyBottoms},
					{Name: "shoes", Categories: sportyShoes},
				}},
				{Name: "sporty-dress", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"sporty-dress"}},
					{Name: "shoes", Categories: sportyShoes},
				}},
			},
			Forbidden: gymForbidden,
		}},
		{Occasion: "gym", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "training", Slots: []Slot{
					{Name: "top", Categories: sportyTops},
					{Name: "bottom", Categories: sportyBottoms},
					{Name: "shoes", Categories: sportyShoes},
				}},
			},
			Forbidden: gymForbidden,
		}},
		{Occasion: "yoga-pilates", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "studio", Slots: []Slot{
					{Name: "top", Categories: []string{"t-shirt", "tank-top", "crop-top", "bralette", "bodysuit", "sweatshirt"}},
					{Name: "bottom", Categories: []string{"leggings", "track-bottom", "athletic-shorts"}},
				}},
			},
			Forbidden: concat(formalOnly, []string{"jeans", "boots", "tall-boots", "bootie", "leather-jacket", "mini-skirt"}),
		}},
		{Occasion: "outdoor-sports", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "active", Slots: []Slot{
					{Name: "top", Categories: sportyTops},
					{Name: "bottom", Categories: sportyBottoms},
					{Name: "shoes", Categories: sportyShoes},
				}},
			},
			Forbidden: gymForbidden,
		}},
		{Occasion: "hiking", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "trail", Slots: []Slot{
					{Name: "top", Categories: []string{"t-shirt", "sweatshirt", "hoodie", "track-top", "polo-shirt", "shirt", "sweater", "pullover"}},
					{Name: "bottom", Categories: []string{"trousers", "track-bottom", "leggings", "athletic-shorts", "bermuda-shorts", "jeans"}},
					{Name: "shoes", Categories: []string{"boots", "sneakers", "casual-sport-shoes"}},
				}},
			},
			Forbidden: concat(formalOnly, []string{"flats", "sandals", "slippers", "bootie", "tall-boots", "mini-skirt", "midi-skirt", "long-skirt", "casual-dress", "handbag"}),
		}},
		{Occasion: "wedding", Gender: models.GenderFemale, Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "dress", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"evening-dress", "modest-evening-dress", "modest-dress", "jumpsuit"}},
					{Name: "shoes", Categories: dressyShoesFemale},
				}},
				{Name: "separates", Slots: []Slot{
					{Name: "top", Categories: formalTopsFemale},
					{Name: "bottom", Categories: formalBottomsFemale},
					{Name: "shoes", Categories: dressyShoesFemale},
				}},
			},
			Forbidden: weddingForbidden,
		}},
		{Occasion: "wedding", Gender: models.GenderMale, Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "suit", Slots: []Slot{
					{Name: "top", Categories: []string{"shirt"}},
					{Name: "bottom", Categories: formalBottomsMale},
					{Name: "shoes", Categories: dressyShoesMale},
				}},
				{Name: "tuxedo", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"tuxedo"}},
					{Name: "shoes", Categories: dressyShoesMale},
				}},
			},
			Forbidden: concat(weddingForbidden, []string{"t-shirt", "polo-shirt", "jeans"}),
		}},
		{Occasion: "wedding", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "formal", Slots: []Slot{
					{Name: "top", Categories: []string{"shirt", "blouse"}},
					{Name: "bottom", Categories: []string{"trousers", "suit-trousers", "midi-skirt", "long-skirt"}},
					{Name: "shoes", Categories: concat(dressyShoesFemale, dressyShoesMale)},
				}},
				{Name: "dress", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"evening-dress", "modest-evening-dress", "jumpsuit", "tuxedo"}},
					{Name: "shoes", Categories: concat(dressyShoesFemale, dressyShoesMale)},
				}},
			},
			Forbidden: weddingForbidden,
		}},
		{Occasion: "formal-dinner", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "separates", Slots: []Slot{
					{Name: "top", Categories: []string{"shirt", "blouse", "bodysuit", "sweater"}},
					{Name: "bottom", Categories: []string{"trousers", "suit-trousers", "midi-skirt", "long-skirt"}},
					{Name: "shoes", Categories: concat(dressyShoesFemale, dressyShoesMale)},
				}},
				{Name: "dress", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"evening-dress", "modest-evening-dress", "modest-dress", "jumpsuit", "tuxedo"}},
					{Name: "shoes", Categories: concat(dressyShoesFemale, dressyShoesMale)},
				}},
			},
			Forbidden: weddingForbidden,
		}},
		{Occasion: "business-meeting", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "separates", Slots: []Slot{
					{Name: "top", Categories: []string{"shirt", "blouse", "polo-shirt", "sweater"}},
					{Name: "bottom", Categories: []string{"trousers", "suit-trousers", "linen-trousers", "midi-skirt", "long-skirt"}},
					{Name: "shoes", Categories: []string{"classic-shoes", "loafers", "flats", "heels", "bootie"}},
				}},
				{Name: "dress", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"modest-dress", "casual-dress", "jumpsuit"}},
					{Name: "shoes", Categories: []string{"classic-shoes", "loafers", "flats", "heels", "bootie"}},
				}},
			},
			Forbidden: concat(businessForbidden, []string{"t-shirt", "sneakers", "evening-dress"}),
		}},
		{Occasion: "office-day", Rules: OccasionRuleSet{
			Templates: []OutfitTemplate{
				{Name: "separates", Slots: []Slot{
					{Name: "top", Categories: officeTops},
					{Name: "bottom", Categories: officeBottoms},
					{Name: "shoes", Categories: officeShoes},
				}},
				{Name: "dress", Slots: []Slot{
					{Name: "one-piece", Categories: []string{"modest-dress", "casual-dress", "jumpsuit"}},
					{Name: "shoes", Categories: officeShoes},
				}},
			},
			Forbidden: businessForbidden,
		}},
	}
}

var (
	defaultRuleBookOnce sync.Once
	defaultRuleBook     *RuleBook
)

// DefaultRuleBook returns the built-in occasion rules, validated on first use.
func DefaultRuleBook() *RuleBook {
	defaultRuleBookOnce.Do(func() {
		defaultRuleBook = MustRuleBook(defaultRuleEntries())
	})
	return defaultRuleBook
}

// OccasionStyle is the style vocabulary hinted to the model for an occasion.
func OccasionStyle(occasion string) string {
	switch normalizeCategory(occasion) {
	case "gym", "yoga-pilates", "outdoor-sports", "hiking":
		return "sportswear, casual"
	case "office-day", "business-meeting", "business-lunch", "networking":
		return "business, smart casual"
	case "wedding", "formal-dinner", "special-event", "celebration":
		return "formal, elegant"
	case "night-out", "birthday-party", "concert", "house-party", "dinner-date", "festival":
		return "party, trendy"
	default:
		return "casual"
	}
}

func occasionLabel(occasion string) string {
	return strings.ReplaceAll(normalizeCategory(occasion), "_", "-")
}
