package inmemdb

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core/messaging"
)

type messagingRepository struct {
	db *messageTable
}

var _ messaging.Repository = (*messagingRepository)(nil)

func NewMessagingRepository(db *DB) messaging.Repository {
	return &messagingRepository{db: db.messaging}
}

func (repo *messagingRepository) CreateMessage(msg messaging.Message) (messaging.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *messagingRepository) GetMessageByID(id string) (messaging.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if msg, ok := repo.db.table[id]; ok {
		return *msg, nil
	}
	return messaging.Message{}, messaging.ErrNotFound
}

func (repo *messagingRepository) GetInbox(userID string) ([]messaging.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := make([]messaging.Message, 0)
	for _, msg := range repo.db.table {
		if msg.RecipientID == userID {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SentAt.After(msgs[j].SentAt) })
	return msgs, nil
}

func (repo *messagingRepository) GetThread(userID, otherID string) ([]messaging.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := make([]messaging.Message, 0)
	for _, msg := range repo.db.table {
		if (msg.SenderID == userID && msg.RecipientID == otherID) ||
			(msg.SenderID == otherID && msg.RecipientID == userID) {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SentAt.Before(msgs[j].SentAt) })
	return msgs, nil
}

func (repo *messagingRepository) MarkMessageRead(id string, at time.Time) (messaging.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	msg, ok := repo.db.table[id]
	if !ok {
		return messaging.Message{}, messaging.ErrNotFound
	}
	msg.ReadAt = null.TimeFrom(at)
	return *msg, nil
}
