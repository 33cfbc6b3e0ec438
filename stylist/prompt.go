package stylist

import (
	"combinaapi/languageutil"
	"combinaapi/models"
	"fmt"
	"strings"
)

const (
	defaultPromptMaxItems = 120
	defaultPromptRecent   = 5
	searchQueryCount      = 3
)

type PromptInput struct {
	Occasion      string
	Gender        models.Gender
	Weather       string
	Language      models.Language
	Plan          models.Plan
	Wardrobe      []models.WardrobeItem
	RecentOutfits []models.RecentOutfit
}

type Prompt struct {
	Text              string
	SystemInstruction string
	// Items are exactly the wardrobe records serialized into Text. Returned
	// item ids must come from this set.
	Items   []models.WardrobeItem
	Premium bool
}

type PromptBuilder struct {
	MaxItems  int
	MaxRecent int
}

const systemInstruction = "You are a professional fashion stylist. You only answer with a single JSON object and never with prose or markdown."

var colorHarmony = []string{
	"Neutrals (black, white, grey, beige, navy) pair with any color.",
	"Complementary pairs work as accents: blue with orange, red with green, purple with yellow.",
	"Keep at most one bold or patterned piece per outfit; balance it with solids.",
	"Tonal outfits (shades of one color) read as polished.",
	"Match leather tones of shoes, belt and bag when possible.",
}

var weatherBands = []struct {
	band     string
	keywords []string
	prefer   string
	avoid    string
}{
	{"cold", []string{"cold", "snow", "freez", "soğuk"}, "coats, sweaters, boots, layered jackets", "shorts, tank tops, sandals, crop tops"},
	{"hot", []string{"hot", "sıcak", "heat"}, "shorts, tank tops, sandals, t-shirts, light fabrics", "coats, jackets, sweaters, boots, cardigans, long heavy pieces"},
	{"cool", []string{"cool", "rain", "wind", "serin", "yağmur"}, "jackets, jeans, boots", "shorts, tank tops, sandals"},
	{"warm", []string{"warm", "sunny", "ılık", "güneş"}, "t-shirts, jeans, sneakers", "coats, heavy layers"},
	{"mild", []string{"mild", "cloud", "bulut"}, "jeans, trousers, light sweaters", ""},
}

// WeatherGuidance classifies a free-form weather condition into a band and
// returns matching layering advice.
func WeatherGuidance(condition string) string {
	c := strings.ToLower(condition)
	for _, wb := range weatherBands {
		for _, k := range wb.keywords {
			if strings.Contains(c, k) {
				guidance := fmt.Sprintf("Weather is %s: prefer %s", wb.band, wb.prefer)
				if wb.avoid != "" {
					guidance += fmt.Sprintf("; avoid %s", wb.avoid)
				}
				return guidance + "."
			}
		}
	}
	return "Dress for the stated weather; add outerwear only if it helps."
}

func sanitizeField(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("|", "/", ",", " ").Replace(s)), " ")
}

func sanitizeList(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = sanitizeField(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}

// itemRecord is the dense id|name|category|colors|styles serialization.
func itemRecord(item models.WardrobeItem) string {
	return strings.Join([]string{
		sanitizeField(string(item.ID)),
		sanitizeField(item.Name),
		normalizeCategory(item.Category),
		sanitizeList(item.Colors),
		sanitizeList(item.Styles),
	}, "|")
}

// selectItems drops unknown categories and, above max, picks round-robin
// across structural roles so every role stays represented.
func selectItems(wardrobe []models.WardrobeItem, max int) []models.WardrobeItem {
	byRole := make(map[CategoryType][]models.WardrobeItem)
	known := 0
	for _, item := range wardrobe {
		role := RoleOf(item.Category)
		if role == TypeOther {
			continue
		}
		byRole[role] = append(byRole[role], item)
		known++
	}
	if known <= max {
		selected := make([]models.WardrobeItem, 0, known)
		for _, item := range wardrobe {
			if RoleOf(item.Category) != TypeOther {
				selected = append(selected, item)
			}
		}
		return selected
	}

	selected := make([]models.WardrobeItem, 0, max)
	for round := 0; len(selected) < max; round++ {
		progressed := false
		for _, role := range typeOrder {
			if round < len(byRole[role]) && len(selected) < max {
				selected = append(selected, byRole[role][round])
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return selected
}

func (b PromptBuilder) Build(in PromptInput) (*Prompt, error) {
	maxItems := b.MaxItems
	if maxItems <= 0 {
		maxItems = defaultPromptMaxItems
	}
	maxRecent := b.MaxRecent
	if maxRecent <= 0 {
		maxRecent = defaultPromptRecent
	}

	items := selectItems(in.Wardrobe, maxItems)
	if len(items) == 0 {
		return nil, ErrEmptyWardrobe
	}
	premium := in.Plan.IsPremium()
	gender := in.Gender
	if gender == "" {
		gender = models.GenderUnisex
	}
	weather := strings.TrimSpace(in.Weather)
	if weather == "" {
		weather = "unspecified"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a %s outfit for the occasion '%s' in %s weather.\n", gender, occasionLabel(in.Occasion), sanitizeField(weather))
	fmt.Fprintf(&sb, "Write description and suggestion_tip in %s.\n", languageutil.DisplayName(in.Language))
	fmt.Fprintf(&sb, "Occasion style: %s.\n", OccasionStyle(in.Occasion))
	sb.WriteString(WeatherGuidance(weather) + "\n\n")

	sb.WriteString("WARDROBE (id|name|category|colors|styles):\n")
	for _, item := range items {
		sb.WriteString(itemRecord(item))
		sb.WriteByte('\n')
	}

	recent := in.RecentOutfits
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	if len(recent) > 0 {
		sb.WriteString("\nRECENT OUTFITS (do not repeat any of these exact combinations):\n")
		for _, o := range recent {
			sb.WriteString(strings.Join(models.CanonicalIDs(o.Items), ","))
			sb.WriteByte('\n')
		}
	}

	sb.WriteString("\nCOLOR HARMONY:\n")
	for _, h := range colorHarmony {
		sb.WriteString("- " + h + "\n")
	}

	sb.WriteString(`
RULES:
1. Output a single JSON object and nothing else.
2. Use only ids from WARDROBE. Never invent ids.
3. The outfit is (1 top + 1 bottom) OR (1 one-piece), plus 1 pair of shoes. Never combine a one-piece with a top or bottom.
4. At most one item per category type, except accessories.
5. Outerwear, a bag and accessories are optional.
6. name and category may be a short creative description of the item.
`)
	if premium {
		fmt.Fprintf(&sb, "7. Add exactly %d search_queries: a short descriptive title and a search phrase for similar looks. Never write URLs.\n", searchQueryCount)
	}
	sb.WriteString("\nJSON FORMAT: ")
	sb.WriteString(outputSchema(premium))

	return &Prompt{
		Text:              sb.String(),
		SystemInstruction: systemInstruction,
		Items:             items,
		Premium:           premium,
	}, nil
}

func outputSchema(premium bool) string {
	schema := `{"items":[{"id":"","name":"","category":""}],"description":"","suggestion_tip":""`
	if premium {
		schema += `,"search_queries":[{"title":"","query":""}]`
	}
	return schema + "}"
}

// ExclusionClause is appended to the prompt on a semantic retry.
func ExclusionClause(rejected [][]string, hardAvoid []string) string {
	if len(rejected) == 0 && len(hardAvoid) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nPREVIOUS ANSWERS WERE REJECTED.\n")
	for _, ids := range rejected {
		fmt.Fprintf(&sb, "Do NOT use this exact combination again: %s\n", strings.Join(models.CanonicalIDs(ids), ","))
	}
	if len(hardAvoid) > 0 {
		fmt.Fprintf(&sb, "Avoid these ids entirely if any alternative exists: %s\n", strings.Join(models.CanonicalIDs(hardAvoid), ","))
	}
	return sb.String()
}
