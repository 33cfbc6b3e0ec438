package stylist

import (
	"combinaapi/languageutil"
	"combinaapi/logger"
	"combinaapi/models"
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// Caller is the resolved identity of a suggestion request.
type Caller struct {
	UserID    string
	Anonymous bool
	Plan      models.Plan
	Gender    models.Gender
	// newest first, already merged with whatever the client sent
	RecentOutfits []models.RecentOutfit
}

type SuggestRequest struct {
	Occasion  string
	Weather   string
	Language  models.Language
	Wardrobe  []models.WardrobeItem
	// client correlation id, only logged
	RequestID string
}

// QuotaGate denies callers over their daily limit with *QuotaExceededError.
type QuotaGate interface {
	Check(ctx context.Context, caller Caller) error
}

// HistoryRecorder charges one use and stores the outfit for the caller.
type HistoryRecorder interface {
	Record(ctx context.Context, caller Caller, entry models.RecentOutfit) error
}

// HistoryDeferrer schedules a failed history write for a later retry.
type HistoryDeferrer interface {
	EnqueueHistoryRecord(ctx context.Context, userID string, entry models.RecentOutfit) error
}

type Engine struct {
	Rules     *RuleBook
	Prompts   PromptBuilder
	Generator *Generator
	Assembler *Assembler
	Quota     QuotaGate
	History   HistoryRecorder
	Deferred  HistoryDeferrer
	Logger    *logger.Logger
	Now       func() time.Time
}

// Suggest runs quota check, prescreen, filter, prompt, generation, assembly
// and the history write, in that order.
func (e *Engine) Suggest(ctx context.Context, caller Caller, req SuggestRequest) (*models.OutfitResponse, error) {
	log := e.log().With("user_id", caller.UserID, "client_request_id", strings.TrimSpace(req.RequestID))
	occasion := models.NormalizeOccasion(req.Occasion)
	gender := models.ResolveGender(caller.Gender)

	if err := e.Quota.Check(ctx, caller); err != nil {
		return nil, err
	}
	if len(req.Wardrobe) == 0 {
		return nil, ErrEmptyWardrobe
	}
	if err := e.Rules.Prescreen(occasion, gender, req.Wardrobe); err != nil {
		log.Info("wardrobe rejected by prescreen", "occasion", occasion, "gender", gender)
		return nil, err
	}
	rules, _ := e.Rules.Lookup(occasion, gender)
	candidates, err := FilterWardrobe(req.Wardrobe, rules)
	if err != nil {
		return nil, err
	}

	prompt, err := e.Prompts.Build(PromptInput{
		Occasion:      occasion,
		Gender:        gender,
		Weather:       req.Weather,
		Language:      req.Language,
		Plan:          caller.Plan,
		Wardrobe:      candidates,
		RecentOutfits: caller.RecentOutfits,
	})
	if err != nil {
		return nil, err
	}

	var recent []models.RecentOutfit
	if !caller.Anonymous {
		recent = caller.RecentOutfits
	}
	outfit, err := e.Generator.Generate(ctx, GenerationInput{
		Prompt:        prompt,
		Plan:          caller.Plan,
		RecentOutfits: recent,
		Anonymous:     caller.Anonymous,
	})
	if err != nil {
		log.Warn("outfit generation failed", "occasion", occasion, "error", err)
		return nil, err
	}
	log.Info("outfit generated", "occasion", occasion, "attempts", outfit.Attempts, "backend", outfit.Tag)

	resp := e.Assembler.Assemble(ctx, outfit, caller.Plan)

	// every generated outfit is charged under its own server-minted id; the
	// deferred retry replays this id so the worker cannot charge it twice
	requestID := uuid.NewString()
	entry := models.RecentOutfit{
		Items:     models.CanonicalIDs(resp.IDs()),
		Occasion:  occasion,
		Weather:   req.Weather,
		Date:      models.DateOf(e.now()),
		RequestID: requestID,
	}
	if err := e.History.Record(ctx, caller, entry); err != nil {
		log.Error("failed to record usage and history", "error", err)
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("failure_type", "history_write")
			scope.SetTag("user_id", caller.UserID)
			scope.SetExtra("request_id", requestID)
			sentry.CaptureException(err)
		})
		resp.Warning = languageutil.Sprintf(req.Language, languageutil.MsgHistoryNotSaved)
		if !caller.Anonymous && e.Deferred != nil {
			if err := e.Deferred.EnqueueHistoryRecord(ctx, caller.UserID, entry); err != nil {
				log.Error("failed to enqueue history retry", "error", err)
			}
		}
	}
	return &resp, nil
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) log() *logger.Logger {
	if e.Logger == nil {
		return logger.Nop()
	}
	return e.Logger
}
