package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/academia-hq/academia/core/school"
)

type schoolRepository struct {
	db *schoolTables
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func enrollmentKey(classID, studentID string) string {
	return classID + "/" + studentID
}

func attendanceKey(classID, studentID, date string) string {
	return classID + "/" + studentID + "/" + date
}

func (repo *schoolRepository) CheckClassCodeUniqueness(code string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cls := range repo.db.classes {
		if cls.Code == code {
			return school.ErrCodeExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateClass(cls school.Class) (school.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if cls.ID == "" {
		cls.ID = uuid.New().String()
	}
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *schoolRepository) QueryAllClasses() ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0, len(repo.db.classes))
	for _, cls := range repo.db.classes {
		classes = append(classes, *cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Code < classes[j].Code })
	return classes, nil
}

func (repo *schoolRepository) GetClassByID(id string) (school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) GetClassesByTeacher(teacherID string) ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0)
	for _, cls := range repo.db.classes {
		if cls.TeacherID == teacherID {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Code < classes[j].Code })
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(cls school.Class) (school.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.classes[cls.ID]
	if !ok {
		return school.Class{}, school.ErrClassNotFound
	}
	orig.Name = cls.Name
	orig.TeacherID = cls.TeacherID
	orig.Room = cls.Room
	orig.UpdatedAt = cls.UpdatedAt
	return *orig, nil
}

func (repo *schoolRepository) DeleteClassesByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.classes, id)
		for key, slot := range repo.db.slots {
			if slot.ClassID == id {
				delete(repo.db.slots, key)
			}
		}
		for key, enr := range repo.db.enrollments {
			if enr.ClassID == id {
				delete(repo.db.enrollments, key)
			}
		}
		for key, rec := range repo.db.attendance {
			if rec.ClassID == id {
				delete(repo.db.attendance, key)
			}
		}
	}
	return nil
}

func (repo *schoolRepository) CreateSlot(slot school.TimetableSlot) (school.TimetableSlot, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	repo.db.slots[slot.ID] = &slot
	return slot, nil
}

func (repo *schoolRepository) GetSlotsByClass(classID string) ([]school.TimetableSlot, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	slots := make([]school.TimetableSlot, 0)
	for _, slot := range repo.db.slots {
		if slot.ClassID == classID {
			slots = append(slots, *slot)
		}
	}
	sortSlots(slots)
	return slots, nil
}

func (repo *schoolRepository) DeleteSlot(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.slots[id]; !ok {
		return school.ErrSlotNotFound
	}
	delete(repo.db.slots, id)
	return nil
}

func (repo *schoolRepository) CreateEnrollment(enr school.Enrollment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := enrollmentKey(enr.ClassID, enr.StudentID)
	if _, ok := repo.db.enrollments[key]; ok {
		return school.ErrAlreadyEnrolled
	}
	repo.db.enrollments[key] = enr
	return nil
}

func (repo *schoolRepository) DeleteEnrollment(classID, studentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := enrollmentKey(classID, studentID)
	if _, ok := repo.db.enrollments[key]; !ok {
		return school.ErrNotEnrolled
	}
	delete(repo.db.enrollments, key)
	return nil
}

func (repo *schoolRepository) GetEnrollmentsByClass(classID string) ([]school.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrs := make([]school.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if enr.ClassID == classID {
			enrs = append(enrs, enr)
		}
	}
	sortEnrollments(enrs)
	return enrs, nil
}

func (repo *schoolRepository) GetEnrollmentsByStudent(studentID string) ([]school.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrs := make([]school.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID {
			enrs = append(enrs, enr)
		}
	}
	sortEnrollments(enrs)
	return enrs, nil
}

func (repo *schoolRepository) UpsertAttendance(rec school.AttendanceRecord) (school.AttendanceRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := attendanceKey(rec.ClassID, rec.StudentID, rec.Date)
	if orig, ok := repo.db.attendance[key]; ok {
		orig.Status = rec.Status
		orig.RecordedBy = rec.RecordedBy
		orig.RecordedAt = rec.RecordedAt
		return *orig, nil
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	repo.db.attendance[key] = &rec
	return rec, nil
}

func (repo *schoolRepository) GetAttendanceByClassDate(classID, date string) ([]school.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]school.AttendanceRecord, 0)
	for _, rec := range repo.db.attendance {
		if rec.ClassID == classID && rec.Date == date {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].StudentID < recs[j].StudentID })
	return recs, nil
}

func (repo *schoolRepository) GetAttendanceByStudent(studentID string) ([]school.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]school.AttendanceRecord, 0)
	for _, rec := range repo.db.attendance {
		if rec.StudentID == studentID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date > recs[j].Date })
	return recs, nil
}

func sortSlots(slots []school.TimetableSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Weekday != slots[j].Weekday {
			return slots[i].Weekday < slots[j].Weekday
		}
		return slots[i].StartMin < slots[j].StartMin
	})
}

func sortEnrollments(enrs []school.Enrollment) {
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].EnrolledAt.Before(enrs[j].EnrolledAt) })
}
