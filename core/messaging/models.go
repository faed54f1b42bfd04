package messaging

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core"
)

// Message is a direct message from one user to another.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sent_at"` // UTC
	ReadAt      null.Time `json:"read_at,omitempty"`
}

func (m Message) IsRead() bool { return m.ReadAt.Valid }

type NewMessage struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

func (nm *NewMessage) Validate() error {
	nm.Body = core.CleanString(nm.Body)
	return core.Validate.Struct(nm)
}
