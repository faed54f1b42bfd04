package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core/messaging"
)

type messagingApi struct {
	svc messaging.Service
}

func registerMessagingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc messaging.Service) {
	api := messagingApi{svc: svc}

	mg := g.Group("/messages", jwt)
	mg.POST("", api.send)
	mg.GET("", api.inbox)
	mg.GET("/thread/:userID", api.thread)
	mg.PUT("/:id/read", api.markRead)
}

// Handlers

func (api *messagingApi) send(ctx echo.Context) error {
	var data messaging.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	msg, err := api.svc.Send(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messagingApi) inbox(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	msgs, err := api.svc.Inbox(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying inbox")
	}
	if msgs == nil {
		msgs = []messaging.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messagingApi) thread(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	msgs, err := api.svc.Thread(claims.Subject, ctx.Param("userID"))
	if err != nil {
		return errors.Wrap(err, "querying thread")
	}
	if msgs == nil {
		msgs = []messaging.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messagingApi) markRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	msg, err := api.svc.MarkRead(ctx.Param("id"), claims.Subject)
	if err != nil {
		if errors.Cause(err) == messaging.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking message read")
	}
	return ctx.JSON(http.StatusOK, msg)
}
