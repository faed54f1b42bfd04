package messaging

import (
	"errors"
	"time"

	"github.com/academia-hq/academia/core"
)

var (
	ErrNotFound      = errors.New("message not found")
	ErrSelfMessaging = errors.New("cannot send a message to yourself")
)

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		GetMessageByID(id string) (Message, error)
		// GetInbox returns messages received by a user, newest first.
		GetInbox(userID string) ([]Message, error)
		// GetThread returns messages exchanged between two users, oldest first.
		GetThread(userID, otherID string) ([]Message, error)
		MarkMessageRead(id string, at time.Time) (Message, error)
	}

	Service interface {
		Send(senderID string, nm NewMessage) (Message, error)
		GetByID(id string) (Message, error)
		Inbox(userID string) ([]Message, error)
		Thread(userID, otherID string) ([]Message, error)
		// MarkRead marks a message read; only the recipient may do so.
		MarkRead(id, readerID string) (Message, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Send(senderID string, nm NewMessage) (Message, error) {
	if nm.RecipientID == senderID {
		return Message{}, core.NewValidationError(ErrSelfMessaging, core.FieldError{Field: "recipient_id", Error: ErrSelfMessaging.Error()})
	}
	return svc.repo.CreateMessage(Message{
		SenderID:    senderID,
		RecipientID: nm.RecipientID,
		Body:        nm.Body,
		SentAt:      time.Now().UTC(),
	})
}

func (svc *service) GetByID(id string) (Message, error) {
	return svc.repo.GetMessageByID(id)
}

func (svc *service) Inbox(userID string) ([]Message, error) {
	return svc.repo.GetInbox(userID)
}

func (svc *service) Thread(userID, otherID string) ([]Message, error) {
	return svc.repo.GetThread(userID, otherID)
}

func (svc *service) MarkRead(id, readerID string) (Message, error) {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		return Message{}, err
	}
	if msg.RecipientID != readerID {
		return Message{}, ErrNotFound
	}
	if msg.IsRead() {
		return msg, nil
	}
	return svc.repo.MarkMessageRead(id, time.Now().UTC())
}
