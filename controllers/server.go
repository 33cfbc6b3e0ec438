package controllers

import (
	"combinaapi/logger"
	"combinaapi/models"
	"combinaapi/services"
	"combinaapi/store"
	"combinaapi/stylist"
	"combinaapi/usage"
	"net/http"

	"github.com/go-playground/validator"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("language", models.ValidateLanguage)
	v.RegisterValidation("gender", models.ValidateGender)
	v.RegisterValidation("occasion", models.ValidateOccasion)
	v.RegisterValidation("plan", models.ValidatePlan)
	return &CustomValidator{validator: v}
}

// ServerDeps are the collaborators shared by every route group.
type ServerDeps struct {
	Store      store.UserStore
	Engine     *stylist.Engine
	Ledger     *usage.Ledger
	Rules      *stylist.RuleBook
	Balancer   *services.Balancer
	Logger     *logger.Logger
	JWTSecret  string
	AnonSecret string
}

func SetupServer(deps ServerDeps) *echo.Echo {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Rules == nil {
		deps.Rules = stylist.DefaultRuleBook()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__store", deps.Store)
			c.Set("__logger", deps.Logger.With(
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			))
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api := e.Group("/api")

	outfitController := OutfitController{
		Store:    deps.Store,
		Engine:   deps.Engine,
		Ledger:   deps.Ledger,
		Rules:    deps.Rules,
		Balancer: deps.Balancer,
	}
	outfitController.PublicRoutes(api)
	identified := api.Group("", IdentityMiddleware(deps.JWTSecret, deps.AnonSecret))
	outfitController.OutfitRoutes(identified)

	usersGroup := api.Group("/users", echojwt.JWT([]byte(deps.JWTSecret)), RegisteredUserMiddleware)
	usersController := UsersController{Store: deps.Store, Ledger: deps.Ledger}
	usersController.UserRoutes(usersGroup)

	return e
}
