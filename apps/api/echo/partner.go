package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniwayhq/uniway/core/partner"
)

type partnerApi struct {
	svc      *partner.Service
	validate *validator.Validate
}

func registerPartnerAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := partnerApi{
		svc:      deps.PartnerSvc,
		validate: deps.Validate,
	}

	pg := g.Group("/partners", jwt)
	pg.POST("", api.create, adminMiddleware())
	pg.GET("", api.query)

	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

// Handlers

func (api *partnerApi) create(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data partner.NewPartner
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPartner")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), tenant, data)
	if err != nil {
		return errors.Wrap(err, "creating partner")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *partnerApi) query(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	partners, err := api.svc.QueryAll(ctx.Request().Context(), tenant)
	if err != nil {
		return errors.Wrap(err, "querying partners")
	}
	if partners == nil {
		partners = []partner.Partner{}
	}
	return ctx.JSON(http.StatusOK, partners)
}

func (api *partnerApi) retrieve(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.Get(ctx.Request().Context(), tenant, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == partner.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting partner")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *partnerApi) update(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data partner.UpdatePartner
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePartner")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), tenant, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == partner.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating partner")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *partnerApi) destroy(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), tenant, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting partner")
	}
	return ctx.NoContent(http.StatusNoContent)
}
