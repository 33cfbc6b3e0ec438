package controllers

import (
	"combinaapi/languageutil"
	"combinaapi/models"
	"combinaapi/store"
	"combinaapi/stylist"
	"errors"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// respondError maps a pipeline error onto its HTTP status and a localized
// message. Anything unrecognised is reported and answered with a generic 500.
func respondError(c echo.Context, lang models.Language, err error) error {
	var quota *stylist.QuotaExceededError
	var infeasible *stylist.InfeasibleWardrobeError

	switch {
	case errors.As(err, &quota):
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error": languageutil.Sprintf(lang, languageutil.MsgQuotaExceeded, quota.Limit),
			"code":  "quota_exceeded",
			"limit": quota.Limit,
		})
	case errors.As(err, &infeasible):
		labels := make([]string, 0, len(infeasible.Missing))
		for _, category := range infeasible.Missing {
			labels = append(labels, languageutil.HumanizeLabel(category))
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":              languageutil.Sprintf(lang, languageutil.MsgInfeasibleWardrobe, strings.Join(labels, ", ")),
			"code":               "infeasible_wardrobe",
			"occasion":           infeasible.Occasion,
			"missing_categories": infeasible.Missing,
		})
	case errors.Is(err, stylist.ErrEmptyWardrobe):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": languageutil.Sprintf(lang, languageutil.MsgEmptyWardrobe),
			"code":  "empty_wardrobe",
		})
	case errors.Is(err, stylist.ErrNoDistinctOutfit):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": languageutil.Sprintf(lang, languageutil.MsgNoDistinctOutfit),
			"code":  "no_distinct_outfit",
		})
	case errors.Is(err, stylist.ErrTransport):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error": languageutil.Sprintf(lang, languageutil.MsgServiceUnavailable),
			"code":  "service_unavailable",
		})
	case errors.Is(err, store.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": languageutil.Sprintf(lang, languageutil.MsgUserNotFound),
			"code":  "user_not_found",
		})
	}

	requestLogger(c).Error("unexpected error", "path", c.Path(), "error", err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": languageutil.Sprintf(lang, languageutil.MsgInternalError),
		"code":  "internal_error",
	})
}

func badRequest(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": httpErr.Message, "code": "invalid_request"})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "code": "invalid_request"})
}

// requestLanguage is the body's language when valid, else the Accept-Language match.
func requestLanguage(c echo.Context, lang models.Language) models.Language {
	if lang != "" && models.ValidateLanguageRaw(strings.ToLower(string(lang))) {
		return lang.OrDefault()
	}
	return languageutil.MatchAcceptLanguage(c.Request().Header.Get("Accept-Language"))
}
