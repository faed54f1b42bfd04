package docreq

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/user"
)

var (
	ErrNotFound       = errors.New("document request not found")
	ErrAlreadyDecided = errors.New("document request has already been decided")
	ErrNotApproved    = errors.New("only an approved request can be marked ready")
)

type (
	Repository interface {
		CreateRequest(req Request) (Request, error)
		QueryAllRequests() ([]Request, error)
		GetRequestByID(id string) (Request, error)
		GetRequestsByStudent(studentID string) ([]Request, error)
		UpdateRequest(req Request) (Request, error)
	}

	Service interface {
		Create(studentID string, nr NewRequest) (Request, error)
		QueryAll() ([]Request, error)
		GetByID(id string) (Request, error)
		QueryByStudent(studentID string) ([]Request, error)
		// Decide approves or rejects a pending request and notifies the student by email.
		Decide(id, deciderID string, d Decision) (Request, error)
		// MarkReady transitions an approved request to ready and notifies the student.
		MarkReady(id string) (Request, error)
	}

	service struct {
		repo    Repository
		usrSvc  user.Service
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, mailSvc core.EmailService) Service {
	return &service{repo: repo, usrSvc: usrSvc, mailSvc: mailSvc}
}

func (svc *service) Create(studentID string, nr NewRequest) (Request, error) {
	now := time.Now().UTC()
	return svc.repo.CreateRequest(Request{
		StudentID: studentID,
		Type:      nr.Type,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryAll() ([]Request, error) {
	return svc.repo.QueryAllRequests()
}

func (svc *service) GetByID(id string) (Request, error) {
	return svc.repo.GetRequestByID(id)
}

func (svc *service) QueryByStudent(studentID string) ([]Request, error) {
	return svc.repo.GetRequestsByStudent(studentID)
}

func (svc *service) Decide(id, deciderID string, d Decision) (Request, error) {
	req, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, core.NewValidationError(ErrAlreadyDecided)
	}

	if d.Approve {
		req.Status = StatusApproved
	} else {
		req.Status = StatusRejected
	}
	req.Note = d.Note
	req.DecidedBy = null.StringFrom(deciderID)
	req.UpdatedAt = time.Now().UTC()

	req, err = svc.repo.UpdateRequest(req)
	if err != nil {
		return Request{}, err
	}
	svc.notify(req)
	return req, nil
}

func (svc *service) MarkReady(id string) (Request, error) {
	req, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusApproved {
		return Request{}, core.NewValidationError(ErrNotApproved)
	}
	req.Status = StatusReady
	req.UpdatedAt = time.Now().UTC()

	req, err = svc.repo.UpdateRequest(req)
	if err != nil {
		return Request{}, err
	}
	svc.notify(req)
	return req, nil
}

func (svc *service) notify(req Request) {
	usr, err := svc.usrSvc.GetByID(req.StudentID)
	if err != nil || usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Document Request %s", req.Reference),
		TemplateName: "docreq-status",
		TemplateData: struct {
			Name      string
			Reference string
			Type      string
			Status    string
			Note      string
		}{
			Name:      usr.Name,
			Reference: req.Reference,
			Type:      req.Type,
			Status:    req.Status,
			Note:      req.Note,
		},
	})
}
