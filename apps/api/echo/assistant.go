package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/assistant"
)

type assistantApi struct {
	svc    assistant.Service
	logger core.Logger
}

func registerAssistantAPI(g *echo.Group, svc assistant.Service, logger core.Logger) {
	api := assistantApi{svc: svc, logger: logger}

	// the frontend chat widget calls this pre-login as well; no jwt here.
	g.POST("/chat", api.chat)
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// chat validates the request, gathers certification context, forwards the
// composed prompt to the model endpoint and returns the generated reply.
// Any catalog or upstream failure is logged and reported as a generic 503;
// no internal detail crosses the boundary.
func (api *assistantApi) chat(ctx echo.Context) error {
	var data assistant.ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reply, err := api.svc.Chat(ctx.Request().Context(), data)
	if err != nil {
		api.logger.Error("assistant chat failed", errors.Wrap(err, "forwarding chat"))
		return errAssistantUnavailable
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
