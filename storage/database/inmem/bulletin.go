package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/academia-hq/academia/core/bulletin"
)

type bulletinRepository struct {
	db *announcementTable
}

var _ bulletin.Repository = (*bulletinRepository)(nil)

func NewBulletinRepository(db *DB) bulletin.Repository {
	return &bulletinRepository{db: db.bulletin}
}

func (repo *bulletinRepository) CreateAnnouncement(ann bulletin.Announcement) (bulletin.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if ann.ID == "" {
		ann.ID = uuid.New().String()
	}
	repo.db.table[ann.ID] = &ann
	return ann, nil
}

func (repo *bulletinRepository) QueryAllAnnouncements() ([]bulletin.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	anns := make([]bulletin.Announcement, 0, len(repo.db.table))
	for _, ann := range repo.db.table {
		anns = append(anns, *ann)
	}
	sort.Slice(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

func (repo *bulletinRepository) GetAnnouncementByID(id string) (bulletin.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ann, ok := repo.db.table[id]; ok {
		return *ann, nil
	}
	return bulletin.Announcement{}, bulletin.ErrNotFound
}

func (repo *bulletinRepository) UpdateAnnouncement(ann bulletin.Announcement) (bulletin.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[ann.ID]
	if !ok {
		return bulletin.Announcement{}, bulletin.ErrNotFound
	}
	orig.Title = ann.Title
	orig.Body = ann.Body
	orig.Audience = ann.Audience
	orig.UpdatedAt = ann.UpdatedAt
	return *orig, nil
}

func (repo *bulletinRepository) DeleteAnnouncementsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
