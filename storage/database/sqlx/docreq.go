package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core/docreq"
)

type requestRow struct {
	ID        string      `db:"id"`
	Reference string      `db:"reference"`
	StudentID string      `db:"student_id"`
	Type      string      `db:"type"`
	Status    string      `db:"status"`
	Note      string      `db:"note"`
	DecidedBy null.String `db:"decided_by"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r requestRow) request() docreq.Request {
	return docreq.Request{
		ID:        r.ID,
		Reference: r.Reference,
		StudentID: r.StudentID,
		Type:      r.Type,
		Status:    r.Status,
		Note:      r.Note,
		DecidedBy: r.DecidedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const requestColumns = `id, reference, student_id, type, status, note, decided_by, created_at, updated_at`

type docreqRepository struct {
	db *sqlx.DB
}

var _ docreq.Repository = (*docreqRepository)(nil)

func NewDocreqRepository(db *sqlx.DB) docreq.Repository {
	return &docreqRepository{db: db}
}

// newReference derives a short human-readable reference from a fresh UUID.
func newReference(id string) string {
	return "DR-" + strings.ToUpper(strings.ReplaceAll(id, "-", ""))[:10]
}

func (repo *docreqRepository) CreateRequest(req docreq.Request) (docreq.Request, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Reference == "" {
		req.Reference = newReference(req.ID)
	}
	_, err := repo.db.Exec(
		`INSERT INTO document_request (id, reference, student_id, type, status, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.Reference, req.StudentID, req.Type, req.Status, req.Note, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return docreq.Request{}, errors.Wrap(err, "creating document request")
	}
	return req, nil
}

func (repo *docreqRepository) QueryAllRequests() ([]docreq.Request, error) {
	return repo.selectRequests(`SELECT ` + requestColumns + ` FROM document_request ORDER BY created_at DESC`)
}

func (repo *docreqRepository) GetRequestByID(id string) (docreq.Request, error) {
	var row requestRow
	err := repo.db.Get(&row, `SELECT `+requestColumns+` FROM document_request WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return docreq.Request{}, docreq.ErrNotFound
		}
		return docreq.Request{}, errors.Wrap(err, "getting document request")
	}
	return row.request(), nil
}

func (repo *docreqRepository) GetRequestsByStudent(studentID string) ([]docreq.Request, error) {
	return repo.selectRequests(
		`SELECT `+requestColumns+` FROM document_request WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID,
	)
}

func (repo *docreqRepository) UpdateRequest(req docreq.Request) (docreq.Request, error) {
	var row requestRow
	err := repo.db.Get(&row,
		`UPDATE document_request SET status = $1, note = $2, decided_by = $3, updated_at = $4 WHERE id = $5
		 RETURNING `+requestColumns,
		req.Status, req.Note, req.DecidedBy, req.UpdatedAt, req.ID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return docreq.Request{}, docreq.ErrNotFound
		}
		return docreq.Request{}, errors.Wrap(err, "updating document request")
	}
	return row.request(), nil
}

func (repo *docreqRepository) selectRequests(query string, args ...interface{}) ([]docreq.Request, error) {
	var rows []requestRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying document requests")
	}
	reqs := make([]docreq.Request, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, r.request())
	}
	return reqs, nil
}
