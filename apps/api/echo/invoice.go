package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniwayhq/uniway/core/invoice"
)

type invoiceApi struct {
	svc      *invoice.Service
	validate *validator.Validate
}

func registerInvoiceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := invoiceApi{
		svc:      deps.InvoiceSvc,
		validate: deps.Validate,
	}

	ig := g.Group("/invoices", jwt)
	ig.POST("", api.create)
	ig.GET("", api.query)
	ig.GET("/:id", api.retrieve)
	ig.PUT("/:id/pay", api.markPaid, accountantOrAdminMiddleware())
}

// Handlers

func (api *invoiceApi) create(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data invoice.NewInvoice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvoice")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	inv, err := api.svc.Create(ctx.Request().Context(), tenant, data)
	if err != nil {
		return errors.Wrap(err, "creating invoice")
	}
	return ctx.JSON(http.StatusCreated, inv)
}

func (api *invoiceApi) query(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	filter := &invoice.QueryFilter{
		StudentID: ctx.QueryParam("student_id"),
		Status:    invoice.Status(ctx.QueryParam("status")),
	}

	invoices, err := api.svc.Query(ctx.Request().Context(), tenant, filter)
	if err != nil {
		return errors.Wrap(err, "querying invoices")
	}
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}
	return ctx.JSON(http.StatusOK, invoices)
}

func (api *invoiceApi) retrieve(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	inv, err := api.svc.Get(ctx.Request().Context(), tenant, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == invoice.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting invoice")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *invoiceApi) markPaid(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	inv, err := api.svc.MarkPaid(ctx.Request().Context(), tenant, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == invoice.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking invoice paid")
	}
	return ctx.JSON(http.StatusOK, inv)
}
