package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniwayhq/uniway/core/student"
)

type studentApi struct {
	svc        *student.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:        deps.StudentSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	sg := g.Group("/students", jwt)
	sg.POST("", api.create)
	sg.GET("", api.query)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.PUT("/transition", api.transition)
	dg.PUT("/noc", api.updateNoc)
	dg.PUT("/commission", api.updateCommission, accountantOrAdminMiddleware())
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.CreateLead(ctx.Request().Context(), tenant, data)
	if err != nil {
		return errors.Wrap(err, "creating lead")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) query(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	filter := new(student.QueryFilter)
	filter.Search = ctx.QueryParam("search")
	filter.Status = student.ApplicationStatus(ctx.QueryParam("status"))
	filter.BranchID = ctx.QueryParam("branch_id")
	filter.PartnerID = ctx.QueryParam("partner_id")
	if from := ctx.QueryParam("created_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.CreatedFrom = t
		}
	}
	if to := ctx.QueryParam("created_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.CreatedTo = t
		}
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), tenant, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	st, err := api.svc.Get(ctx.Request().Context(), tenant, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.Update(ctx.Request().Context(), tenant, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

type TransitionRequest struct {
	TargetStatus student.ApplicationStatus `json:"target_status" validate:"required"`
	PartnerID    string                    `json:"partner_id"`
}

func (tr *TransitionRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(tr)
}

func (api *studentApi) transition(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data TransitionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TransitionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.RequestTransition(ctx.Request().Context(), tenant, ctx.Param("id"), data.TargetStatus, data.PartnerID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

type NocUpdateRequest struct {
	NocStatus student.NocStatus `json:"noc_status" validate:"required,oneof=NotRequired Pending Applied Approved"`
}

func (nr *NocUpdateRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

func (api *studentApi) updateNoc(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data NocUpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NocUpdateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.UpdateNocStatus(ctx.Request().Context(), tenant, ctx.Param("id"), data.NocStatus)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating NOC status")
	}
	return ctx.JSON(http.StatusOK, st)
}

type CommissionUpdateRequest struct {
	CommissionStatus student.CommissionStatus `json:"commission_status" validate:"required,oneof=Pending Claimed Received"`
}

func (cr *CommissionUpdateRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}

func (api *studentApi) updateCommission(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	var data CommissionUpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CommissionUpdateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.UpdateCommissionStatus(ctx.Request().Context(), tenant, ctx.Param("id"), data.CommissionStatus)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating commission status")
	}
	return ctx.JSON(http.StatusOK, st)
}
