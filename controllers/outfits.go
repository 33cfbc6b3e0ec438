package controllers

import (
	"combinaapi/models"
	"combinaapi/services"
	"combinaapi/store"
	"combinaapi/stylist"
	"combinaapi/usage"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type OutfitController struct {
	Store    store.UserStore
	Engine   *stylist.Engine
	Ledger   *usage.Ledger
	Rules    *stylist.RuleBook
	Balancer *services.Balancer
}

// resolveCaller builds the pipeline identity. Registered users are created on
// first sight; their stored plan wins over anything the client sends.
func (controller *OutfitController) resolveCaller(ctx context.Context, identity Identity, gender models.Gender, recent []models.RecentOutfit) (stylist.Caller, error) {
	if identity.Anonymous {
		return stylist.Caller{
			UserID:        identity.UserID,
			Anonymous:     true,
			Plan:          models.PlanAnonymous,
			Gender:        models.ResolveGender(gender),
			RecentOutfits: models.MergeRecentOutfits(nil, recent),
		}, nil
	}
	user, err := store.GetOrCreateUser(ctx, controller.Store, identity.UserID)
	if err != nil {
		return stylist.Caller{}, err
	}
	return stylist.Caller{
		UserID:        user.ID,
		Plan:          user.Plan.OrDefault(),
		Gender:        models.ResolveGender(gender, user.Gender),
		RecentOutfits: models.MergeRecentOutfits(user.RecentOutfits, recent),
	}, nil
}

func (controller *OutfitController) OutfitRoutes(g *echo.Group) {
	g.POST("/suggest-outfit", func(c echo.Context) error {
		var request models.OutfitRequestIn
		if err := c.Bind(&request); err != nil {
			return badRequest(c, err)
		}
		if err := c.Validate(&request); err != nil {
			return badRequest(c, err)
		}
		lang := requestLanguage(c, request.Language)
		ctx := c.Request().Context()

		caller, err := controller.resolveCaller(ctx, currentIdentity(c), request.Gender, request.RecentOutfits)
		if err != nil {
			return respondError(c, lang, err)
		}
		response, err := controller.Engine.Suggest(ctx, caller, stylist.SuggestRequest{
			Occasion:  request.Occasion,
			Weather:   request.WeatherCondition,
			Language:  lang,
			Wardrobe:  request.Wardrobe,
			RequestID: request.RequestID,
		})
		if err != nil {
			return respondError(c, lang, err)
		}
		return c.JSON(http.StatusOK, response)
	})

	g.GET("/usage-status", func(c echo.Context) error {
		lang := requestLanguage(c, "")
		ctx := c.Request().Context()
		caller, err := controller.resolveCaller(ctx, currentIdentity(c), "", nil)
		if err != nil {
			return respondError(c, lang, err)
		}
		status, err := controller.Ledger.Status(ctx, caller)
		if err != nil {
			return respondError(c, lang, err)
		}
		return c.JSON(http.StatusOK, status)
	})
}

// PublicRoutes need no identity.
func (controller *OutfitController) PublicRoutes(g *echo.Group) {
	g.GET("/occasion-rules", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"occasions": stylist.Occasions,
			"rules":     controller.Rules.Summaries(),
		})
	})

	g.GET("/health", func(c echo.Context) error {
		var backends []services.BackendStats
		if controller.Balancer != nil {
			backends = controller.Balancer.Stats()
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "ok",
			"backends": backends,
		})
	})
}
