package bulletin

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("announcement not found")

type (
	Repository interface {
		CreateAnnouncement(ann Announcement) (Announcement, error)
		QueryAllAnnouncements() ([]Announcement, error)
		GetAnnouncementByID(id string) (Announcement, error)
		UpdateAnnouncement(ann Announcement) (Announcement, error)
		DeleteAnnouncementsByID(ids ...string) error
	}

	Service interface {
		Create(createdBy string, na NewAnnouncement) (Announcement, error)
		QueryAll() ([]Announcement, error)
		// QueryVisible returns announcements whose audience intersects the given roles,
		// newest first.
		QueryVisible(roles []string) ([]Announcement, error)
		GetByID(id string) (Announcement, error)
		Update(id string, ua UpdateAnnouncement) (Announcement, error)
		Delete(ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(createdBy string, na NewAnnouncement) (Announcement, error) {
	now := time.Now().UTC()
	return svc.repo.CreateAnnouncement(Announcement{
		Title:     na.Title,
		Body:      na.Body,
		Audience:  na.Audience,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryAll() ([]Announcement, error) {
	return svc.repo.QueryAllAnnouncements()
}

func (svc *service) QueryVisible(roles []string) ([]Announcement, error) {
	all, err := svc.repo.QueryAllAnnouncements()
	if err != nil {
		return nil, err
	}
	visible := make([]Announcement, 0, len(all))
	for _, ann := range all {
		if ann.VisibleTo(roles) {
			visible = append(visible, ann)
		}
	}
	return visible, nil
}

func (svc *service) GetByID(id string) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(id)
}

func (svc *service) Update(id string, ua UpdateAnnouncement) (Announcement, error) {
	return svc.repo.UpdateAnnouncement(Announcement{
		ID:        id,
		Title:     ua.Title,
		Body:      ua.Body,
		Audience:  ua.Audience,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteAnnouncementsByID(ids...)
}
