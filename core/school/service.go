package school

import (
	"errors"
	"time"

	"github.com/academia-hq/academia/core"
)

var (
	// errors
	ErrClassNotFound   = errors.New("class not found")
	ErrSlotNotFound    = errors.New("timetable slot not found")
	ErrCodeExists      = errors.New("a class with this code already exists")
	ErrSlotOverlap     = errors.New("slot overlaps an existing slot of this class")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this class")
	ErrNotEnrolled     = errors.New("student is not enrolled in this class")
)

type (
	Repository interface {
		CheckClassCodeUniqueness(code string) error
		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		GetClassesByTeacher(teacherID string) ([]Class, error)
		UpdateClass(cls Class) (Class, error)
		DeleteClassesByID(ids ...string) error

		CreateSlot(slot TimetableSlot) (TimetableSlot, error)
		GetSlotsByClass(classID string) ([]TimetableSlot, error)
		DeleteSlot(id string) error

		CreateEnrollment(enr Enrollment) error
		DeleteEnrollment(classID, studentID string) error
		GetEnrollmentsByClass(classID string) ([]Enrollment, error)
		GetEnrollmentsByStudent(studentID string) ([]Enrollment, error)

		// UpsertAttendance updates the existing (class, student, date) record or creates one.
		UpsertAttendance(rec AttendanceRecord) (AttendanceRecord, error)
		GetAttendanceByClassDate(classID, date string) ([]AttendanceRecord, error)
		GetAttendanceByStudent(studentID string) ([]AttendanceRecord, error)
	}

	Service interface {
		CheckCodeUniqueness(code string) error
		CreateClass(nc NewClass) (Class, error)
		QueryAll() ([]Class, error)
		GetByID(id string) (Class, error)
		QueryByTeacher(teacherID string) ([]Class, error)
		Update(id string, uc UpdateClass) (Class, error)
		Delete(ids ...string) error

		AddSlot(classID string, ns NewTimetableSlot) (TimetableSlot, error)
		RemoveSlot(classID, slotID string) error
		ClassTimetable(classID string) ([]TimetableSlot, error)
		StudentTimetable(studentID string) ([]TimetableSlot, error)

		Enroll(classID, studentID string) error
		Unenroll(classID, studentID string) error
		Roster(classID string) ([]Enrollment, error)

		RecordAttendance(classID, recordedBy string, na NewAttendance) (AttendanceRecord, error)
		AttendanceSheet(classID, date string) ([]AttendanceRecord, error)
		StudentAttendance(studentID string) ([]AttendanceRecord, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckCodeUniqueness(code string) error {
	if err := svc.repo.CheckClassCodeUniqueness(code); err != nil {
		if err == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateClass(nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		Code:      nc.Code,
		Name:      nc.Name,
		TeacherID: nc.TeacherID,
		Room:      nc.Room,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateClass(cls)
}

func (svc *service) QueryAll() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *service) GetByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *service) QueryByTeacher(teacherID string) ([]Class, error) {
	return svc.repo.GetClassesByTeacher(teacherID)
}

func (svc *service) Update(id string, uc UpdateClass) (Class, error) {
	cls := Class{
		ID:        id,
		Name:      uc.Name,
		TeacherID: uc.TeacherID,
		Room:      uc.Room,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateClass(cls)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteClassesByID(ids...)
}

func (svc *service) AddSlot(classID string, ns NewTimetableSlot) (TimetableSlot, error) {
	start, end, err := ns.Validate()
	if err != nil {
		return TimetableSlot{}, err
	}
	if _, err = svc.repo.GetClassByID(classID); err != nil {
		return TimetableSlot{}, err
	}

	slot := TimetableSlot{
		ClassID:  classID,
		Weekday:  ns.Weekday,
		StartMin: start,
		EndMin:   end,
		Room:     core.CleanString(ns.Room),
	}

	existing, err := svc.repo.GetSlotsByClass(classID)
	if err != nil {
		return TimetableSlot{}, err
	}
	for _, other := range existing {
		if slot.Overlaps(other) {
			return TimetableSlot{}, core.NewValidationError(ErrSlotOverlap)
		}
	}
	return svc.repo.CreateSlot(slot)
}

func (svc *service) RemoveSlot(classID, slotID string) error {
	slots, err := svc.repo.GetSlotsByClass(classID)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if slot.ID == slotID {
			return svc.repo.DeleteSlot(slotID)
		}
	}
	return ErrSlotNotFound
}

func (svc *service) ClassTimetable(classID string) ([]TimetableSlot, error) {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return nil, err
	}
	return svc.repo.GetSlotsByClass(classID)
}

func (svc *service) StudentTimetable(studentID string) ([]TimetableSlot, error) {
	enrs, err := svc.repo.GetEnrollmentsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	var slots []TimetableSlot
	for _, enr := range enrs {
		classSlots, err := svc.repo.GetSlotsByClass(enr.ClassID)
		if err != nil {
			return nil, err
		}
		slots = append(slots, classSlots...)
	}
	return slots, nil
}

func (svc *service) Enroll(classID, studentID string) error {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return err
	}
	return svc.repo.CreateEnrollment(Enrollment{
		ClassID:    classID,
		StudentID:  studentID,
		EnrolledAt: time.Now().UTC(),
	})
}

func (svc *service) Unenroll(classID, studentID string) error {
	return svc.repo.DeleteEnrollment(classID, studentID)
}

func (svc *service) Roster(classID string) ([]Enrollment, error) {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return nil, err
	}
	return svc.repo.GetEnrollmentsByClass(classID)
}

func (svc *service) RecordAttendance(classID, recordedBy string, na NewAttendance) (AttendanceRecord, error) {
	if err := na.Validate(); err != nil {
		return AttendanceRecord{}, err
	}
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return AttendanceRecord{}, err
	}

	// the student must be enrolled
	enrs, err := svc.repo.GetEnrollmentsByClass(classID)
	if err != nil {
		return AttendanceRecord{}, err
	}
	var enrolled bool
	for _, enr := range enrs {
		if enr.StudentID == na.StudentID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return AttendanceRecord{}, core.NewValidationError(ErrNotEnrolled, core.FieldError{Field: "student_id", Error: ErrNotEnrolled.Error()})
	}

	return svc.repo.UpsertAttendance(AttendanceRecord{
		ClassID:    classID,
		StudentID:  na.StudentID,
		Date:       na.Date,
		Status:     na.Status,
		RecordedBy: recordedBy,
		RecordedAt: time.Now().UTC(),
	})
}

func (svc *service) AttendanceSheet(classID, date string) ([]AttendanceRecord, error) {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return nil, err
	}
	return svc.repo.GetAttendanceByClassDate(classID, date)
}

func (svc *service) StudentAttendance(studentID string) ([]AttendanceRecord, error) {
	return svc.repo.GetAttendanceByStudent(studentID)
}
