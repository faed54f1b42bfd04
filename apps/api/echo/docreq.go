package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core/docreq"
)

type docreqApi struct {
	svc docreq.Service
}

func registerDocreqAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc docreq.Service) {
	api := docreqApi{svc: svc}

	dg := g.Group("/document-requests", jwt)
	dg.POST("", api.create, studentMiddleware())
	dg.GET("", api.query)

	detail := dg.Group("/:id", api.requestObjectMiddleware)
	detail.GET("", api.retrieve)
	detail.PUT("/decision", api.decide, adminMiddleware())
	detail.PUT("/ready", api.markReady, adminMiddleware())
}

// Middleware

// requestObjectMiddleware loads the requested document request and ensures the
// caller may see it: admins see everything, students only their own.
func (api *docreqApi) requestObjectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req, err := api.svc.GetByID(ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == docreq.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "getting document request")
		}

		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if !claims.IsAdmin && req.StudentID != claims.Subject {
			return errHttpNotFound
		}

		ctx.Set("object", req)
		return next(ctx)
	}
}

// Handlers

func (api *docreqApi) create(ctx echo.Context) error {
	var data docreq.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	req, err := api.svc.Create(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating document request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *docreqApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var reqs []docreq.Request
	if claims.IsAdmin {
		reqs, err = api.svc.QueryAll()
	} else {
		reqs, err = api.svc.QueryByStudent(claims.Subject)
	}
	if err != nil {
		return errors.Wrap(err, "querying document requests")
	}
	if reqs == nil {
		reqs = []docreq.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *docreqApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ctx.Get("object").(docreq.Request))
}

func (api *docreqApi) decide(ctx echo.Context) error {
	var data docreq.Decision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Decision")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	obj := ctx.Get("object").(docreq.Request)
	req, err := api.svc.Decide(obj.ID, claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "deciding document request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *docreqApi) markReady(ctx echo.Context) error {
	obj := ctx.Get("object").(docreq.Request)
	req, err := api.svc.MarkReady(obj.ID)
	if err != nil {
		return errors.Wrap(err, "marking document request ready")
	}
	return ctx.JSON(http.StatusOK, req)
}
