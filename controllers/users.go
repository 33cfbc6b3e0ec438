package controllers

import (
	"combinaapi/models"
	"combinaapi/store"
	"combinaapi/usage"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type UsersController struct {
	Store  store.UserStore
	Ledger *usage.Ledger
}

func (controller *UsersController) profile(user *models.UserAccount) models.ProfileOut {
	today := controller.Ledger.Today()
	return models.ProfileOut{
		UserID:          user.ID,
		FullName:        user.FullName,
		Email:           user.Email,
		Gender:          models.ResolveGender(user.Gender),
		Plan:            user.Plan.OrDefault(),
		Usage:           usage.StatusFor(user.Plan.OrDefault(), user.Usage.Rollover(today)),
		IsAnonymous:     user.IsAnonymous,
		ProfileComplete: user.IsProfileComplete(),
	}
}

func (controller *UsersController) UserRoutes(g *echo.Group) {
	g.GET("/profile", func(c echo.Context) error {
		lang := requestLanguage(c, "")
		user, err := store.GetOrCreateUser(c.Request().Context(), controller.Store, currentIdentity(c).UserID)
		if err != nil {
			return respondError(c, lang, err)
		}
		return c.JSON(http.StatusOK, controller.profile(user))
	})

	g.POST("/update-info", func(c echo.Context) error {
		lang := requestLanguage(c, "")
		var request models.UserInfoUpdateIn
		if err := c.Bind(&request); err != nil {
			return badRequest(c, err)
		}
		if err := c.Validate(&request); err != nil {
			return badRequest(c, err)
		}
		user, err := controller.Store.UpdateUser(c.Request().Context(), currentIdentity(c).UserID, func(u *models.UserAccount) error {
			u.FullName = request.Name
			u.Gender = request.Gender
			u.ProfileComplete = u.IsProfileComplete()
			return nil
		})
		if err != nil {
			return respondError(c, lang, err)
		}
		requestLogger(c).Info("profile updated", "profile_complete", user.ProfileComplete)
		return c.JSON(http.StatusOK, controller.profile(user))
	})

	g.PATCH("/plan", func(c echo.Context) error {
		lang := requestLanguage(c, "")
		var request models.PlanUpdateIn
		if err := c.Bind(&request); err != nil {
			return badRequest(c, err)
		}
		if err := c.Validate(&request); err != nil {
			return badRequest(c, err)
		}
		now := time.Now().UTC()
		user, err := controller.Store.UpdateUser(c.Request().Context(), currentIdentity(c).UserID, func(u *models.UserAccount) error {
			u.Plan = request.Plan
			u.PlanUpdatedAt = &now
			return nil
		})
		if err != nil {
			return respondError(c, lang, err)
		}
		requestLogger(c).Info("plan updated", "plan", user.Plan)
		return c.JSON(http.StatusOK, controller.profile(user))
	})

	g.POST("/grant-extra-suggestion", func(c echo.Context) error {
		lang := requestLanguage(c, "")
		grant, err := controller.Ledger.GrantBonus(c.Request().Context(), currentIdentity(c).UserID)
		if err != nil {
			return respondError(c, lang, err)
		}
		requestLogger(c).Info("rewarded suggestion granted", "rewarded_count", grant.NewRewardedCount)
		return c.JSON(http.StatusOK, grant)
	})
}
