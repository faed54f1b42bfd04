package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia-hq/academia/core/school"
)

type classRow struct {
	ID        string      `db:"id"`
	Code      string      `db:"code"`
	Name      string      `db:"name"`
	TeacherID null.String `db:"teacher_id"`
	Room      string      `db:"room"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r classRow) class() school.Class {
	return school.Class{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		TeacherID: r.TeacherID.String,
		Room:      r.Room,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type attendanceRow struct {
	ID         string    `db:"id"`
	ClassID    string    `db:"class_id"`
	StudentID  string    `db:"student_id"`
	Date       time.Time `db:"date"`
	Status     string    `db:"status"`
	RecordedBy string    `db:"recorded_by"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (r attendanceRow) record() school.AttendanceRecord {
	return school.AttendanceRecord{
		ID:         r.ID,
		ClassID:    r.ClassID,
		StudentID:  r.StudentID,
		Date:       r.Date.Format("2006-01-02"),
		Status:     r.Status,
		RecordedBy: r.RecordedBy,
		RecordedAt: r.RecordedAt,
	}
}

const classColumns = `id, code, name, teacher_id, room, created_at, updated_at`

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *sqlx.DB) school.Repository {
	return &schoolRepository{db: db}
}

// teacherID converts an unassigned teacher to NULL to satisfy the FK.
func teacherID(id string) null.String {
	return null.NewString(id, id != "")
}

func (repo *schoolRepository) CheckClassCodeUniqueness(code string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM class WHERE code = $1)`, code)
	if err != nil {
		return errors.Wrap(err, "checking class code uniqueness")
	}
	if exists {
		return school.ErrCodeExists
	}
	return nil
}

func (repo *schoolRepository) CreateClass(cls school.Class) (school.Class, error) {
	if cls.ID == "" {
		cls.ID = uuid.New().String()
	}
	_, err := repo.db.Exec(
		`INSERT INTO class (id, code, name, teacher_id, room, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cls.ID, cls.Code, cls.Name, teacherID(cls.TeacherID), cls.Room, cls.CreatedAt, cls.UpdatedAt,
	)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (repo *schoolRepository) QueryAllClasses() ([]school.Class, error) {
	var rows []classRow
	if err := repo.db.Select(&rows, `SELECT `+classColumns+` FROM class ORDER BY code`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]school.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.class())
	}
	return classes, nil
}

func (repo *schoolRepository) GetClassByID(id string) (school.Class, error) {
	var row classRow
	err := repo.db.Get(&row, `SELECT `+classColumns+` FROM class WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class")
	}
	return row.class(), nil
}

func (repo *schoolRepository) GetClassesByTeacher(tid string) ([]school.Class, error) {
	var rows []classRow
	err := repo.db.Select(&rows, `SELECT `+classColumns+` FROM class WHERE teacher_id = $1 ORDER BY code`, tid)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes by teacher")
	}
	classes := make([]school.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.class())
	}
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(cls school.Class) (school.Class, error) {
	var row classRow
	err := repo.db.Get(&row,
		`UPDATE class SET name = $1, teacher_id = $2, room = $3, updated_at = $4 WHERE id = $5
		 RETURNING `+classColumns,
		cls.Name, teacherID(cls.TeacherID), cls.Room, cls.UpdatedAt, cls.ID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, errors.Wrap(err, "updating class")
	}
	return row.class(), nil
}

func (repo *schoolRepository) DeleteClassesByID(ids ...string) error {
	_, err := repo.db.Exec(`DELETE FROM class WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting classes")
}

func (repo *schoolRepository) CreateSlot(slot school.TimetableSlot) (school.TimetableSlot, error) {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	_, err := repo.db.Exec(
		`INSERT INTO timetable_slot (id, class_id, weekday, start_min, end_min, room)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		slot.ID, slot.ClassID, slot.Weekday, slot.StartMin, slot.EndMin, slot.Room,
	)
	if err != nil {
		return school.TimetableSlot{}, errors.Wrap(err, "creating slot")
	}
	return slot, nil
}

func (repo *schoolRepository) GetSlotsByClass(classID string) ([]school.TimetableSlot, error) {
	var slots []school.TimetableSlot
	err := repo.db.Select(&slots,
		`SELECT id, class_id AS "classid", weekday, start_min AS "startmin", end_min AS "endmin", room
		 FROM timetable_slot WHERE class_id = $1 ORDER BY weekday, start_min`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying slots")
	}
	return slots, nil
}

func (repo *schoolRepository) DeleteSlot(id string) error {
	res, err := repo.db.Exec(`DELETE FROM timetable_slot WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting slot")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrSlotNotFound
	}
	return nil
}

func (repo *schoolRepository) CreateEnrollment(enr school.Enrollment) error {
	_, err := repo.db.Exec(
		`INSERT INTO enrollment (class_id, student_id, enrolled_at) VALUES ($1, $2, $3)`,
		enr.ClassID, enr.StudentID, enr.EnrolledAt,
	)
	if isUniqueViolation(err) {
		return school.ErrAlreadyEnrolled
	}
	return errors.Wrap(err, "creating enrollment")
}

func (repo *schoolRepository) DeleteEnrollment(classID, studentID string) error {
	res, err := repo.db.Exec(`DELETE FROM enrollment WHERE class_id = $1 AND student_id = $2`, classID, studentID)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrNotEnrolled
	}
	return nil
}

func (repo *schoolRepository) GetEnrollmentsByClass(classID string) ([]school.Enrollment, error) {
	var enrs []school.Enrollment
	err := repo.db.Select(&enrs,
		`SELECT class_id AS "classid", student_id AS "studentid", enrolled_at AS "enrolledat"
		 FROM enrollment WHERE class_id = $1 ORDER BY enrolled_at`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrs, nil
}

func (repo *schoolRepository) GetEnrollmentsByStudent(studentID string) ([]school.Enrollment, error) {
	var enrs []school.Enrollment
	err := repo.db.Select(&enrs,
		`SELECT class_id AS "classid", student_id AS "studentid", enrolled_at AS "enrolledat"
		 FROM enrollment WHERE student_id = $1 ORDER BY enrolled_at`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrs, nil
}

func (repo *schoolRepository) UpsertAttendance(rec school.AttendanceRecord) (school.AttendanceRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	var row attendanceRow
	err := repo.db.Get(&row,
		`INSERT INTO attendance (id, class_id, student_id, date, status, recorded_by, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (class_id, student_id, date)
		 DO UPDATE SET status = EXCLUDED.status, recorded_by = EXCLUDED.recorded_by, recorded_at = EXCLUDED.recorded_at
		 RETURNING id, class_id, student_id, date, status, recorded_by, recorded_at`,
		rec.ID, rec.ClassID, rec.StudentID, rec.Date, rec.Status, rec.RecordedBy, rec.RecordedAt,
	)
	if err != nil {
		return school.AttendanceRecord{}, errors.Wrap(err, "upserting attendance")
	}
	return row.record(), nil
}

func (repo *schoolRepository) GetAttendanceByClassDate(classID, date string) ([]school.AttendanceRecord, error) {
	var rows []attendanceRow
	err := repo.db.Select(&rows,
		`SELECT id, class_id, student_id, date, status, recorded_by, recorded_at
		 FROM attendance WHERE class_id = $1 AND date = $2 ORDER BY student_id`, classID, date)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	recs := make([]school.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

func (repo *schoolRepository) GetAttendanceByStudent(studentID string) ([]school.AttendanceRecord, error) {
	var rows []attendanceRow
	err := repo.db.Select(&rows,
		`SELECT id, class_id, student_id, date, status, recorded_by, recorded_at
		 FROM attendance WHERE student_id = $1 ORDER BY date DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	recs := make([]school.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
