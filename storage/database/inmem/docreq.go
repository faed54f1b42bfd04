package inmemdb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/academia-hq/academia/core/docreq"
)

type docreqRepository struct {
	db *requestTable
}

var _ docreq.Repository = (*docreqRepository)(nil)

func NewDocreqRepository(db *DB) docreq.Repository {
	return &docreqRepository{db: db.docreq}
}

func (repo *docreqRepository) CreateRequest(req docreq.Request) (docreq.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Reference == "" {
		req.Reference = "DR-" + strings.ToUpper(strings.ReplaceAll(req.ID, "-", ""))[:10]
	}
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *docreqRepository) QueryAllRequests() ([]docreq.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := make([]docreq.Request, 0, len(repo.db.table))
	for _, req := range repo.db.table {
		reqs = append(reqs, *req)
	}
	sortRequests(reqs)
	return reqs, nil
}

func (repo *docreqRepository) GetRequestByID(id string) (docreq.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return docreq.Request{}, docreq.ErrNotFound
}

func (repo *docreqRepository) GetRequestsByStudent(studentID string) ([]docreq.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := make([]docreq.Request, 0)
	for _, req := range repo.db.table {
		if req.StudentID == studentID {
			reqs = append(reqs, *req)
		}
	}
	sortRequests(reqs)
	return reqs, nil
}

func (repo *docreqRepository) UpdateRequest(req docreq.Request) (docreq.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[req.ID]
	if !ok {
		return docreq.Request{}, docreq.ErrNotFound
	}
	orig.Status = req.Status
	orig.Note = req.Note
	orig.DecidedBy = req.DecidedBy
	orig.UpdatedAt = req.UpdatedAt
	return *orig, nil
}

func sortRequests(reqs []docreq.Request) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
}
