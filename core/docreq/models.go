package docreq

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core"
)

// Document types
const (
	TypeTranscript     = "transcript"
	TypeEnrollmentCert = "enrollment_certificate"
	TypeGradeReport    = "grade_report"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusReady    = "ready"
)

var (
	Types    = []string{TypeTranscript, TypeEnrollmentCert, TypeGradeReport}
	Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusReady}
)

// Request is a student's request for an official document.
type Request struct {
	ID        string      `json:"id"`
	Reference string      `json:"reference"`
	StudentID string      `json:"student_id"`
	Type      string      `json:"type"`
	Status    string      `json:"status"`
	Note      string      `json:"note,omitempty"` // decision note, set by the decider
	DecidedBy null.String `json:"decided_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

type NewRequest struct {
	Type string `json:"type" validate:"required,doctype"`
}

func (nr *NewRequest) Validate() error {
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	return core.Validate.Struct(nr)
}

type Decision struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (d *Decision) Validate() error {
	d.Note = core.CleanString(d.Note)
	return core.Validate.Struct(d)
}
