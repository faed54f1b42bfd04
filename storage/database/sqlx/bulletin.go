package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core/bulletin"
)

type announcementRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Body      string         `db:"body"`
	Audience  pq.StringArray `db:"audience"`
	CreatedBy string         `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r announcementRow) announcement() bulletin.Announcement {
	return bulletin.Announcement{
		ID:        r.ID,
		Title:     r.Title,
		Body:      r.Body,
		Audience:  r.Audience,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const announcementColumns = `id, title, body, audience, created_by, created_at, updated_at`

type bulletinRepository struct {
	db *sqlx.DB
}

var _ bulletin.Repository = (*bulletinRepository)(nil)

func NewBulletinRepository(db *sqlx.DB) bulletin.Repository {
	return &bulletinRepository{db: db}
}

func (repo *bulletinRepository) CreateAnnouncement(ann bulletin.Announcement) (bulletin.Announcement, error) {
	if ann.ID == "" {
		ann.ID = uuid.New().String()
	}
	_, err := repo.db.Exec(
		`INSERT INTO announcement (id, title, body, audience, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ann.ID, ann.Title, ann.Body, pq.Array(ann.Audience), ann.CreatedBy, ann.CreatedAt, ann.UpdatedAt,
	)
	if err != nil {
		return bulletin.Announcement{}, errors.Wrap(err, "creating announcement")
	}
	return ann, nil
}

func (repo *bulletinRepository) QueryAllAnnouncements() ([]bulletin.Announcement, error) {
	var rows []announcementRow
	err := repo.db.Select(&rows, `SELECT `+announcementColumns+` FROM announcement ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	anns := make([]bulletin.Announcement, 0, len(rows))
	for _, r := range rows {
		anns = append(anns, r.announcement())
	}
	return anns, nil
}

func (repo *bulletinRepository) GetAnnouncementByID(id string) (bulletin.Announcement, error) {
	var row announcementRow
	err := repo.db.Get(&row, `SELECT `+announcementColumns+` FROM announcement WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return bulletin.Announcement{}, bulletin.ErrNotFound
		}
		return bulletin.Announcement{}, errors.Wrap(err, "getting announcement")
	}
	return row.announcement(), nil
}

func (repo *bulletinRepository) UpdateAnnouncement(ann bulletin.Announcement) (bulletin.Announcement, error) {
	var row announcementRow
	err := repo.db.Get(&row,
		`UPDATE announcement SET title = $1, body = $2, audience = $3, updated_at = $4 WHERE id = $5
		 RETURNING `+announcementColumns,
		ann.Title, ann.Body, pq.Array(ann.Audience), ann.UpdatedAt, ann.ID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return bulletin.Announcement{}, bulletin.ErrNotFound
		}
		return bulletin.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return row.announcement(), nil
}

func (repo *bulletinRepository) DeleteAnnouncementsByID(ids ...string) error {
	_, err := repo.db.Exec(`DELETE FROM announcement WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting announcements")
}
