package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniwayhq/uniway/core/activity"
)

type activityApi struct {
	svc *activity.Service
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := activityApi{svc: deps.ActivitySvc}

	g.GET("/activities", api.query, jwt)
}

func (api *activityApi) query(ctx echo.Context) error {
	tenant, err := getContextTenant(ctx)
	if err != nil {
		return err
	}

	activities, err := api.svc.Query(ctx.Request().Context(), tenant)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}
