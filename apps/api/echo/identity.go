package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/identity"
)

type identityApi struct {
	conf       *core.Config
	svc        *identity.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerIdentityAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := identityApi{
		conf:       deps.Conf,
		svc:        deps.IdentitySvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ig := g.Group("/identities")

	// authed endpoints
	ag := ig.Group("", jwt)
	ag.POST("/register-teacher", api.registerTeacher)
	ag.POST("/register-student", api.registerStudent)
	ag.GET("/me", api.me)

	// un-authed endpoints; registered after the authed group so they override
	// the catch-all routes its middleware installs at the group root
	ig.POST("", api.signup)
	ig.POST("/login", api.login)
}

// Handlers

func (api *identityApi) signup(ctx echo.Context) error {
	var data identity.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	if err := data.Validate(api.validate, api.translator, api.svc); err != nil {
		return err
	}

	acct, err := api.svc.CreateAccount(data)
	if err != nil {
		return errors.Wrap(err, "creating account")
	}
	return ctx.JSON(http.StatusCreated, acct)
}

func (api *identityApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	acct, err := api.svc.Authenticate(identity.ID(data.ID), data.Password)
	if err != nil {
		return err
	}
	claims, err := getClaims(api.conf, acct, api.svc)
	if err != nil {
		return errors.Wrap(err, "building claims")
	}
	token, err := generateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *identityApi) registerTeacher(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.RegisterTeacher(actor); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Registered as teacher."})
}

func (api *identityApi) registerStudent(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.RegisterStudent(actor); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Registered as student."})
}

func (api *identityApi) me(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	acct, err := api.svc.GetAccount(actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, acct)
}

type (
	LoginRequest struct {
		ID       string `json:"id" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.ID = core.CleanString(lr.ID, true /* lower */)
	return validate.Struct(lr)
}
