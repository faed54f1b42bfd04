package school

import (
	"fmt"
	"time"

	"github.com/academia-hq/academia/core"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

var AttendanceStatuses = []string{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused}

type Class struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	TeacherID string    `json:"teacher_id"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Code      string `json:"code" validate:"required,alphanum_"`
	Name      string `json:"name" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"omitempty"`
	Room      string `json:"room"`
}

func (nc *NewClass) Validate(svc Service) error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	nc.Room = core.CleanString(nc.Room)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(nc.Code)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id"`
	Room      string `json:"room"`
}

func (uc *UpdateClass) Validate(origCls Class) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = origCls.Name
	}
	uc.Room = core.CleanString(uc.Room)
	return core.Validate.Struct(uc)
}

// TimetableSlot is a recurring weekly teaching slot of a Class.
// Times are minutes since midnight; Weekday follows time.Weekday (0 = Sunday).
type TimetableSlot struct {
	ID       string `json:"id"`
	ClassID  string `json:"class_id"`
	Weekday  int    `json:"weekday"`
	StartMin int    `json:"start_min"`
	EndMin   int    `json:"end_min"`
	Room     string `json:"room"`
}

func (s TimetableSlot) Overlaps(o TimetableSlot) bool {
	return s.Weekday == o.Weekday && s.StartMin < o.EndMin && o.StartMin < s.EndMin
}

type NewTimetableSlot struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"` // "15:04"
	EndTime   string `json:"end_time" validate:"required"`   // "15:04"
	Room      string `json:"room"`
}

func (ns *NewTimetableSlot) Validate() (start, end int, err error) {
	if err = core.Validate.Struct(ns); err != nil {
		return 0, 0, err
	}
	start, err = parseClock(ns.StartTime)
	if err != nil {
		return 0, 0, core.NewValidationError(err, core.FieldError{Field: "start_time", Error: err.Error()})
	}
	end, err = parseClock(ns.EndTime)
	if err != nil {
		return 0, 0, core.NewValidationError(err, core.FieldError{Field: "end_time", Error: err.Error()})
	}
	if end <= start {
		err = fmt.Errorf("end time must be after start time")
		return 0, 0, core.NewValidationError(err, core.FieldError{Field: "end_time", Error: err.Error()})
	}
	return start, end, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", core.CleanString(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time, expected HH:MM")
	}
	return t.Hour()*60 + t.Minute(), nil
}

type Enrollment struct {
	ClassID    string    `json:"class_id"`
	StudentID  string    `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"` // UTC
}

// AttendanceRecord is the attendance of one student in one class on one date.
// At most one record exists per (class, student, date); later writes update it.
type AttendanceRecord struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"class_id"`
	StudentID  string    `json:"student_id"`
	Date       string    `json:"date"` // "2006-01-02"
	Status     string    `json:"status"`
	RecordedBy string    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"` // UTC
}

type NewAttendance struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"` // "2006-01-02"
	Status    string `json:"status" validate:"required,attstatus"`
}

func (na *NewAttendance) Validate() error {
	na.Date = core.CleanString(na.Date)
	na.Status = core.CleanString(na.Status, true /* lower */)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", na.Date); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date, expected YYYY-MM-DD"})
	}
	return nil
}
