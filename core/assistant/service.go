package assistant

import (
	"context"

	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/certification"
)

// ErrMessageRequired rejects a chat request whose message is empty or
// whitespace-only before any catalog matching happens.
var ErrMessageRequired = errors.New("message is required")

// ChatRequest is one inbound assistant call.
type ChatRequest struct {
	Message         string                 `json:"message"`
	CertificationID string                 `json:"certificationId"`
	UserData        map[string]interface{} `json:"userData"`
}

func (cr *ChatRequest) Validate() error {
	cr.Message = core.CleanString(cr.Message)
	if cr.Message == "" {
		return core.NewValidationError(ErrMessageRequired)
	}
	return nil
}

type (
	Service interface {
		Chat(ctx context.Context, req ChatRequest) (string, error)
	}

	service struct {
		catalog    certification.Catalog
		catalogErr error
		completer  Completer
	}
)

var _ Service = (*service)(nil)

// NewService takes the catalog snapshot loaded at startup; requests share it
// read-only. A non-nil catalogErr marks the catalog unavailable and fails
// every chat until restart.
func NewService(catalog certification.Catalog, catalogErr error, completer Completer) Service {
	return &service{catalog: catalog, catalogErr: catalogErr, completer: completer}
}

// Chat gathers relevant certification context, composes the prompt and
// forwards it to the model endpoint. The outbound call is the only blocking
// point; ctx cancels it.
func (svc *service) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if svc.catalogErr != nil {
		return "", svc.catalogErr
	}
	matched := certification.FindRelevant(req.Message, req.CertificationID, svc.catalog)
	blocks := Compose(matched, req.UserData, req.Message)
	return svc.completer.Complete(ctx, blocks)
}
