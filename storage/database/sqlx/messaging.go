package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core/messaging"
)

type messageRow struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	RecipientID string    `db:"recipient_id"`
	Body        string    `db:"body"`
	SentAt      time.Time `db:"sent_at"`
	ReadAt      null.Time `db:"read_at"`
}

func (r messageRow) message() messaging.Message {
	return messaging.Message{
		ID:          r.ID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Body:        r.Body,
		SentAt:      r.SentAt,
		ReadAt:      r.ReadAt,
	}
}

const messageColumns = `id, sender_id, recipient_id, body, sent_at, read_at`

type messagingRepository struct {
	db *sqlx.DB
}

var _ messaging.Repository = (*messagingRepository)(nil)

func NewMessagingRepository(db *sqlx.DB) messaging.Repository {
	return &messagingRepository{db: db}
}

func (repo *messagingRepository) CreateMessage(msg messaging.Message) (messaging.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	_, err := repo.db.Exec(
		`INSERT INTO message (id, sender_id, recipient_id, body, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Body, msg.SentAt,
	)
	if err != nil {
		return messaging.Message{}, errors.Wrap(err, "creating message")
	}
	return msg, nil
}

func (repo *messagingRepository) GetMessageByID(id string) (messaging.Message, error) {
	var row messageRow
	err := repo.db.Get(&row, `SELECT `+messageColumns+` FROM message WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return messaging.Message{}, messaging.ErrNotFound
		}
		return messaging.Message{}, errors.Wrap(err, "getting message")
	}
	return row.message(), nil
}

func (repo *messagingRepository) GetInbox(userID string) ([]messaging.Message, error) {
	var rows []messageRow
	err := repo.db.Select(&rows,
		`SELECT `+messageColumns+` FROM message WHERE recipient_id = $1 ORDER BY sent_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying inbox")
	}
	msgs := make([]messaging.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, r.message())
	}
	return msgs, nil
}

func (repo *messagingRepository) GetThread(userID, otherID string) ([]messaging.Message, error) {
	var rows []messageRow
	err := repo.db.Select(&rows,
		`SELECT `+messageColumns+` FROM message
		 WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		 ORDER BY sent_at`, userID, otherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying thread")
	}
	msgs := make([]messaging.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, r.message())
	}
	return msgs, nil
}

func (repo *messagingRepository) MarkMessageRead(id string, at time.Time) (messaging.Message, error) {
	var row messageRow
	err := repo.db.Get(&row,
		`UPDATE message SET read_at = $1 WHERE id = $2 RETURNING `+messageColumns, at, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return messaging.Message{}, messaging.ErrNotFound
		}
		return messaging.Message{}, errors.Wrap(err, "marking message read")
	}
	return row.message(), nil
}
