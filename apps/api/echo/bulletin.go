package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core/bulletin"
)

type bulletinApi struct {
	svc bulletin.Service
}

func registerBulletinAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc bulletin.Service) {
	api := bulletinApi{svc: svc}

	ag := g.Group("/announcements", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, adminMiddleware())

	dg := ag.Group("/:id", announcementObjectMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func announcementObjectMiddleware(svc bulletin.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ann, err := svc.GetByID(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == bulletin.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding announcement by ID")
			}

			// non-admins only see announcements addressed to them
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !claims.IsAdmin && !ann.VisibleTo(claims.Roles) {
				return errHttpNotFound
			}

			ctx.Set("object", ann)
			return next(ctx)
		}
	}
}

// Handlers

func (api *bulletinApi) create(ctx echo.Context) error {
	var data bulletin.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ann, err := api.svc.Create(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *bulletinApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var anns []bulletin.Announcement
	if claims.IsAdmin {
		anns, err = api.svc.QueryAll()
	} else {
		anns, err = api.svc.QueryVisible(claims.Roles)
	}
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if anns == nil {
		anns = []bulletin.Announcement{}
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *bulletinApi) retrieve(ctx echo.Context) error {
	ann, ok := ctx.Get("object").(bulletin.Announcement)
	if !ok {
		return errors.New("announcement object not found in echo.Context")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *bulletinApi) update(ctx echo.Context) error {
	ann, ok := ctx.Get("object").(bulletin.Announcement)
	if !ok {
		return errors.New("announcement object not found in echo.Context")
	}

	var data bulletin.UpdateAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnouncement")
	}
	if err := data.Validate(ann); err != nil {
		return err
	}

	ann, err := api.svc.Update(ann.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *bulletinApi) destroy(ctx echo.Context) error {
	ann, ok := ctx.Get("object").(bulletin.Announcement)
	if !ok {
		return errors.New("announcement object not found in echo.Context")
	}
	if err := api.svc.Delete(ann.ID); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}
