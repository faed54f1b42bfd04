package inmemdb

import (
	"sync"

	"github.com/academia-hq/academia/core/bulletin"
	"github.com/academia-hq/academia/core/docreq"
	"github.com/academia-hq/academia/core/messaging"
	"github.com/academia-hq/academia/core/school"
	"github.com/academia-hq/academia/core/user"
)

// DB is a mutex-guarded map store, used for tests and local development.
type DB struct {
	user      *userTable
	school    *schoolTables
	bulletin  *announcementTable
	messaging *messageTable
	docreq    *requestTable
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		school: &schoolTables{
			classes:     make(map[string]*school.Class),
			slots:       make(map[string]*school.TimetableSlot),
			enrollments: make(map[string]school.Enrollment),
			attendance:  make(map[string]*school.AttendanceRecord),
		},
		bulletin:  &announcementTable{table: make(map[string]*bulletin.Announcement)},
		messaging: &messageTable{table: make(map[string]*messaging.Message)},
		docreq:    &requestTable{table: make(map[string]*docreq.Request)},
	}
}

// Reset drops all stored rows. Tests call this between cases.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.school.mutex.Lock()
	db.school.classes = make(map[string]*school.Class)
	db.school.slots = make(map[string]*school.TimetableSlot)
	db.school.enrollments = make(map[string]school.Enrollment)
	db.school.attendance = make(map[string]*school.AttendanceRecord)
	db.school.mutex.Unlock()

	db.bulletin.mutex.Lock()
	db.bulletin.table = make(map[string]*bulletin.Announcement)
	db.bulletin.mutex.Unlock()

	db.messaging.mutex.Lock()
	db.messaging.table = make(map[string]*messaging.Message)
	db.messaging.mutex.Unlock()

	db.docreq.mutex.Lock()
	db.docreq.table = make(map[string]*docreq.Request)
	db.docreq.mutex.Unlock()
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*user.User
}

type schoolTables struct {
	mutex       sync.RWMutex
	classes     map[string]*school.Class
	slots       map[string]*school.TimetableSlot
	enrollments map[string]school.Enrollment        // key: classID + "/" + studentID
	attendance  map[string]*school.AttendanceRecord // key: classID + "/" + studentID + "/" + date
}

type announcementTable struct {
	mutex sync.RWMutex
	table map[string]*bulletin.Announcement
}

type messageTable struct {
	mutex sync.RWMutex
	table map[string]*messaging.Message
}

type requestTable struct {
	mutex sync.RWMutex
	table map[string]*docreq.Request
}
