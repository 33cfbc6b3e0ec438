package stylist

import (
	"combinaapi/logger"
	"combinaapi/models"
	"combinaapi/services"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	DefaultMaxAttempts      = 3
	DefaultTransportRetries = 2
	DefaultRetryDelay       = time.Second

	baseTemperature = 0.7
	temperatureStep = 0.1
	maxTemperature  = 1.0
)

// BackendPool is the view of services.Balancer the generator needs.
type BackendPool interface {
	Acquire() (services.GenerativeClient, string)
	ReportSuccess(tag string)
	ReportFailure(tag string)
}

type GenerationInput struct {
	Prompt        *Prompt
	Plan          models.Plan
	RecentOutfits []models.RecentOutfit
	// anonymous callers have no history, novelty is not checked
	Anonymous bool
}

// GeneratedItem pairs a canonical wardrobe record with the model's relabeling.
type GeneratedItem struct {
	Item     models.WardrobeItem
	Name     string
	Category string
}

type SearchQuery struct {
	Title string
	Query string
}

type GeneratedOutfit struct {
	Items         []GeneratedItem
	Description   string
	SuggestionTip string
	SearchQueries []SearchQuery
	Attempts      int
	Tag           string
}

func (o *GeneratedOutfit) IDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, string(item.Item.ID))
	}
	return ids
}

// Generator drives the generative backends until they return a structurally
// valid, novel outfit. The outer loop spends semantic attempts, the inner loop
// spends transport retries for a single attempt.
type Generator struct {
	Pool             BackendPool
	MaxAttempts      int
	TransportRetries int
	RetryDelay       time.Duration
	Logger           *logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewGenerator(pool BackendPool, maxAttempts, transportRetries int, retryDelay time.Duration, log *logger.Logger) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if transportRetries < 0 {
		transportRetries = DefaultTransportRetries
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		Pool:             pool,
		MaxAttempts:      maxAttempts,
		TransportRetries: transportRetries,
		RetryDelay:       retryDelay,
		Logger:           log,
		sleep:            sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Temperature for the 0-based attempt.
func Temperature(attempt int) float32 {
	return float32(math.Min(baseTemperature+temperatureStep*float64(attempt), maxTemperature))
}

// TokenBudget is the output token limit for a plan.
func TokenBudget(plan models.Plan) int32 {
	switch plan {
	case models.PlanPremium:
		return 800
	case models.PlanStandard:
		return 650
	default:
		return 500
	}
}

func (g *Generator) Generate(ctx context.Context, in GenerationInput) (*GeneratedOutfit, error) {
	if in.Prompt == nil || len(in.Prompt.Items) == 0 {
		return nil, ErrEmptyWardrobe
	}
	subset := make(map[models.ItemID]models.WardrobeItem, len(in.Prompt.Items))
	for _, item := range in.Prompt.Items {
		subset[item.ID] = item
	}
	recent := make(map[string]bool, len(in.RecentOutfits))
	for _, o := range in.RecentOutfits {
		recent[o.Key()] = true
	}
	subsetBuildable := isStructurallyComplete(in.Prompt.Items)

	hardAvoid := map[string]bool{}
	var rejected [][]string

	for attempt := range g.MaxAttempts {
		req := services.CompletionRequest{
			Prompt:            in.Prompt.Text + ExclusionClause(rejected, sortedKeys(hardAvoid)),
			SystemInstruction: in.Prompt.SystemInstruction,
			MaxOutputTokens:   TokenBudget(in.Plan),
			Temperature:       Temperature(attempt),
			JSONOutput:        true,
		}
		raw, tag, err := g.complete(ctx, req)
		if err != nil {
			return nil, err
		}

		items := normalizeItems(raw.Items, subset)
		if len(items) == 0 {
			g.Logger.Warn("generated outfit references no wardrobe item", "attempt", attempt, "backend", tag)
			continue
		}
		items = completeOutfit(items, in.Prompt.Items)
		wardrobeItems := make([]models.WardrobeItem, 0, len(items))
		for _, item := range items {
			wardrobeItems = append(wardrobeItems, item.Item)
		}
		if subsetBuildable && !isStructurallyComplete(wardrobeItems) {
			g.Logger.Warn("generated outfit is structurally incomplete", "attempt", attempt, "backend", tag)
			continue
		}

		outfit := &GeneratedOutfit{
			Items:         items,
			Description:   raw.Description,
			SuggestionTip: raw.SuggestionTip,
			SearchQueries: raw.SearchQueries,
			Attempts:      attempt + 1,
			Tag:           tag,
		}
		if !in.Anonymous {
			ids := outfit.IDs()
			if recent[models.CanonicalKey(ids)] || allIn(ids, hardAvoid) {
				g.Logger.Info("generated outfit repeats a recent one", "attempt", attempt, "items", models.CanonicalKey(ids))
				for _, id := range ids {
					hardAvoid[id] = true
				}
				rejected = append(rejected, ids)
				continue
			}
		}
		return outfit, nil
	}
	return nil, ErrNoDistinctOutfit
}

// complete runs the transport loop for one semantic attempt.
func (g *Generator) complete(ctx context.Context, req services.CompletionRequest) (*rawOutput, string, error) {
	sleep := g.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	var lastErr error
	calls := g.TransportRetries + 1
	for i := range calls {
		if i > 0 {
			if err := sleep(ctx, g.RetryDelay); err != nil {
				return nil, "", fmt.Errorf("%w: %v", ErrTransport, err)
			}
		}
		client, tag := g.Pool.Acquire()
		resp, err := client.Complete(ctx, req)
		if err != nil {
			g.Pool.ReportFailure(tag)
			g.Logger.Warn("generative call failed", "backend", tag, "try", i, "error", err)
			lastErr = err
			continue
		}
		raw, err := parseOutput(resp.Response)
		if err != nil {
			g.Pool.ReportFailure(tag)
			g.Logger.Warn("generative output rejected", "backend", tag, "try", i, "error", err)
			lastErr = err
			continue
		}
		g.Pool.ReportSuccess(tag)
		return raw, tag, nil
	}
	if errors.Is(lastErr, ErrTransport) {
		return nil, "", fmt.Errorf("%d calls failed: %w", calls, lastErr)
	}
	return nil, "", fmt.Errorf("%w: %d calls failed: %v", ErrTransport, calls, lastErr)
}

type rawItem struct {
	ID       models.ItemID
	Name     string
	Category string
}

type rawOutput struct {
	Items         []rawItem
	Description   string
	SuggestionTip string
	SearchQueries []SearchQuery
}

// parseOutput decodes untrusted model text into rawOutput. Only an empty or
// non-object payload is an error; ill-typed fields are dropped.
func parseOutput(text string) (*rawOutput, error) {
	cleaned := services.CleanAIResponseText(text)
	start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		if cleaned == "" {
			return nil, fmt.Errorf("%w: empty payload", ErrMalformedOutput)
		}
		return nil, fmt.Errorf("%w: no JSON object", ErrMalformedOutput)
	}

	dec := json.NewDecoder(strings.NewReader(cleaned[start : end+1]))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	out := &rawOutput{
		Description:   stringField(doc, "description"),
		SuggestionTip: stringField(doc, "suggestion_tip"),
	}
	entries, _ := doc["items"].([]any)
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		var id models.ItemID
		switch v := obj["id"].(type) {
		case string:
			id = models.ItemID(strings.TrimSpace(v))
		case json.Number:
			id = models.ItemID(v.String())
		default:
			continue
		}
		if id == "" {
			continue
		}
		out.Items = append(out.Items, rawItem{ID: id, Name: stringField(obj, "name"), Category: stringField(obj, "category")})
	}
	queries, _ := doc["search_queries"].([]any)
	for _, entry := range queries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		q := SearchQuery{Title: stringField(obj, "title"), Query: stringField(obj, "query")}
		if q.Query != "" {
			out.SearchQueries = append(out.SearchQueries, q)
		}
	}
	return out, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// normalizeItems keeps items whose id is in subset, once each, and at most one
// per structural role except accessories. A one-piece displaces top and bottom.
func normalizeItems(raw []rawItem, subset map[models.ItemID]models.WardrobeItem) []GeneratedItem {
	seen := map[models.ItemID]bool{}
	roles := map[CategoryType]bool{}
	var items []GeneratedItem
	for _, r := range raw {
		item, ok := subset[r.ID]
		if !ok || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		role := RoleOf(item.Category)
		if role == TypeOther {
			continue
		}
		if role != TypeAccessories && roles[role] {
			continue
		}
		roles[role] = true
		items = append(items, GeneratedItem{Item: item, Name: r.Name, Category: r.Category})
	}
	if roles[TypeOnePiece] {
		items = slices.DeleteFunc(items, func(item GeneratedItem) bool {
			role := RoleOf(item.Item.Category)
			return role == TypeTop || role == TypeBottom
		})
	}
	return items
}

// completeOutfit fills a missing top/bottom half and missing shoes from the
// wardrobe subset.
func completeOutfit(items []GeneratedItem, subset []models.WardrobeItem) []GeneratedItem {
	roles := map[CategoryType]bool{}
	for _, item := range items {
		roles[RoleOf(item.Item.Category)] = true
	}
	fill := func(role CategoryType) {
		for _, candidate := range subset {
			if RoleOf(candidate.Category) == role {
				items = append(items, GeneratedItem{Item: candidate})
				roles[role] = true
				return
			}
		}
	}
	if !roles[TypeOnePiece] {
		if roles[TypeTop] && !roles[TypeBottom] {
			fill(TypeBottom)
		} else if roles[TypeBottom] && !roles[TypeTop] {
			fill(TypeTop)
		}
	}
	if !roles[TypeShoes] {
		fill(TypeShoes)
	}
	return items
}

// isStructurallyComplete reports (top + bottom or one-piece) plus shoes.
func isStructurallyComplete(items []models.WardrobeItem) bool {
	roles := map[CategoryType]bool{}
	for _, item := range items {
		roles[RoleOf(item.Category)] = true
	}
	return roles[TypeShoes] && (roles[TypeOnePiece] || (roles[TypeTop] && roles[TypeBottom]))
}

func allIn(ids []string, set map[string]bool) bool {
	if len(set) == 0 {
		return false
	}
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
