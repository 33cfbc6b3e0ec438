package stylist

import (
	"combinaapi/logger"
	"combinaapi/models"
	"combinaapi/services"
	"context"
	"net/url"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"
)

const (
	pinterestSearchURL     = "https://www.pinterest.com/search/pins/?q="
	imageLookupConcurrency = 4
)

// Assembler turns a validated generation into the client response.
type Assembler struct {
	URLCache   services.URLCacheServiceProvider
	AWSService services.AWSServiceProvider
	Bucket     string
	Logger     *logger.Logger
}

func (a *Assembler) Assemble(ctx context.Context, outfit *GeneratedOutfit, plan models.Plan) models.OutfitResponse {
	resp := models.OutfitResponse{
		Items:         make([]models.SuggestedItem, len(outfit.Items)),
		Description:   outfit.Description,
		SuggestionTip: outfit.SuggestionTip,
	}

	var g errgroup.Group
	g.SetLimit(imageLookupConcurrency)
	for i, generated := range outfit.Items {
		item := generated.Item
		name := item.Name
		if generated.Name != "" {
			name = generated.Name
		}
		resp.Items[i] = models.SuggestedItem{ID: item.ID, Name: name, Category: normalizeCategory(item.Category)}
		if item.ImageKey == "" || a.URLCache == nil {
			continue
		}
		index, objectKey := i, item.ImageKey
		g.Go(func() error {
			if imageURL := a.readURL(ctx, objectKey); imageURL != "" {
				resp.Items[index].ImageURL = services.StrPointer(imageURL)
			}
			return nil
		})
	}
	_ = g.Wait()

	if plan.IsPremium() {
		resp.PinterestLinks = PinterestLinks(outfit.SearchQueries)
	}
	return resp
}

// readURL resolves through the cache and falls back to presigning directly.
// An empty result means the image is omitted.
func (a *Assembler) readURL(ctx context.Context, objectKey string) string {
	imageURL, err := a.URLCache.GetReadURL(ctx, objectKey)
	if err == nil {
		return imageURL
	}
	a.log().Warn("image url cache failed", "object_key", objectKey, "error", err)
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("failure_type", "cache_system")
		scope.SetExtra("objectKey", objectKey)
		sentry.CaptureException(err)
	})
	if a.AWSService == nil {
		return ""
	}
	fallbackURL, err := a.AWSService.GetPresignedR2FileReadURL(ctx, a.Bucket, objectKey)
	if err != nil {
		a.log().Error("image url fallback failed", "object_key", objectKey, "error", err)
		sentry.CaptureException(err)
		return ""
	}
	return fallbackURL
}

func (a *Assembler) log() *logger.Logger {
	if a.Logger == nil {
		return logger.Nop()
	}
	return a.Logger
}

// PinterestLinks builds at most three search links from model queries. The
// query text is always escaped.
func PinterestLinks(queries []SearchQuery) []models.PinterestLink {
	links := make([]models.PinterestLink, 0, searchQueryCount)
	for _, q := range queries {
		if len(links) == searchQueryCount {
			break
		}
		if q.Query == "" {
			continue
		}
		title := q.Title
		if title == "" {
			title = q.Query
		}
		links = append(links, models.PinterestLink{Title: title, URL: pinterestSearchURL + url.QueryEscape(q.Query)})
	}
	return links
}
