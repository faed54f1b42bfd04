package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/academia-hq/academia/apps/api/echo"
	"github.com/academia-hq/academia/core/school"
	"github.com/academia-hq/academia/core/user"
	"github.com/academia-hq/academia/tests"
)

func createClass(t *testing.T, code, name, teacherID string) school.Class {
	t.Helper()
	cls, err := schoolSvc.CreateClass(school.NewClass{Code: code, Name: name, TeacherID: teacherID})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return cls
}

func Test_schoolApi_classCRUD(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	cls1 := createClass(t, "cs101", "Intro to Computer Science", teacher.ID)
	cls2 := createClass(t, "math101", "Calculus I", "t2")

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/classes", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Query all as admin", method: http.MethodGet, path: "/v1/classes", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, cls1, cls2),
		},
		{
			name: "Teachers only see their classes", method: http.MethodGet, path: "/v1/classes", token: teacherToken,
			wantCode: http.StatusOK, wantData: marchallList(t, cls1),
		},
		{
			name: "Students see the full catalogue", method: http.MethodGet, path: "/v1/classes", token: studentToken,
			wantCode: http.StatusOK, wantData: marchallList(t, cls1, cls2),
		},
		{
			name: "Retrieve", method: http.MethodGet, path: "/v1/classes/" + cls1.ID, token: studentToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, cls1),
		},
		{
			name: "Retrieve unknown", method: http.MethodGet, path: "/v1/classes/nope", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Create: admin required", method: http.MethodPost, path: "/v1/classes", token: studentToken,
			body:     marchallObj(t, school.NewClass{Code: "phy200", Name: "Physics II"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Create: teachers not allowed either", method: http.MethodPost, path: "/v1/classes", token: teacherToken,
			body:     marchallObj(t, school.NewClass{Code: "phy200", Name: "Physics II"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Create: required fields", method: http.MethodPost, path: "/v1/classes", token: adminToken,
			body:     marchallObj(t, school.NewClass{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"code": "this field is required", "name": "this field is required"}),
		},
		{
			name: "Create: code already taken", method: http.MethodPost, path: "/v1/classes", token: adminToken,
			body:     marchallObj(t, school.NewClass{Code: "CS101", Name: "Other"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"code": "a class with this code already exists"}),
		},
		{
			name: "Update: admin required", method: http.MethodPut, path: "/v1/classes/" + cls1.ID, token: teacherToken,
			body:     marchallObj(t, school.UpdateClass{Name: "Algorithms"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Create", func(t *testing.T) {
		body := marchallObj(t, school.NewClass{Code: "PHY200", Name: "Physics II", TeacherID: teacher.ID, Room: "B12"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/classes", adminToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var cls school.Class
		if err := json.Unmarshal(rec.Body.Bytes(), &cls); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if cls.ID == "" {
			t.Error("failed! empty class ID")
		}
		if cls.Code != "phy200" { // lowered
			t.Errorf("failed! code = %v; want phy200", cls.Code)
		}
	})

	t.Run("Update", func(t *testing.T) {
		body := marchallObj(t, school.UpdateClass{Name: "Algorithms", Room: "C1"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/classes/"+cls1.ID, adminToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var cls school.Class
		if err := json.Unmarshal(rec.Body.Bytes(), &cls); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if cls.Name != "Algorithms" || cls.Room != "C1" {
			t.Errorf("failed! class = %+v", cls)
		}
		if cls.Code != cls1.Code { // immutable
			t.Errorf("failed! code = %v; want %v", cls.Code, cls1.Code)
		}
	})

	t.Run("Destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/classes/"+cls2.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+cls2.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_schoolApi_timetable(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	cls1 := createClass(t, "cs101", "Intro to Computer Science", teacher.ID)
	cls2 := createClass(t, "math101", "Calculus I", teacher.ID)

	slot1, err := schoolSvc.AddSlot(cls1.ID, school.NewTimetableSlot{Weekday: 1, StartTime: "09:00", EndTime: "10:30", Room: "B2"})
	if err != nil {
		t.Fatalf("AddSlot() failed: %v", err)
	}
	slot2, err := schoolSvc.AddSlot(cls2.ID, school.NewTimetableSlot{Weekday: 3, StartTime: "14:00", EndTime: "15:00"})
	if err != nil {
		t.Fatalf("AddSlot() failed: %v", err)
	}
	if err = schoolSvc.Enroll(cls1.ID, student.ID); err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if err = schoolSvc.Enroll(cls2.ID, student.ID); err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{
			name: "Class timetable", method: http.MethodGet, path: "/v1/classes/" + cls1.ID + "/timetable", token: studentToken,
			wantCode: http.StatusOK, wantData: marchallList(t, slot1),
		},
		{
			name: "Add slot: admin required", method: http.MethodPost, path: "/v1/classes/" + cls1.ID + "/slots", token: getToken(t, teacher),
			body:     marchallObj(t, school.NewTimetableSlot{Weekday: 2, StartTime: "09:00", EndTime: "10:00"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Add slot: invalid time", method: http.MethodPost, path: "/v1/classes/" + cls1.ID + "/slots", token: adminToken,
			body:     marchallObj(t, school.NewTimetableSlot{Weekday: 1, StartTime: "9am", EndTime: "10:00"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"start_time": "invalid time, expected HH:MM"}),
		},
		{
			name: "Add slot: overlap", method: http.MethodPost, path: "/v1/classes/" + cls1.ID + "/slots", token: adminToken,
			body:     marchallObj(t, school.NewTimetableSlot{Weekday: 1, StartTime: "10:00", EndTime: "11:00"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "slot overlaps an existing slot of this class"}),
		},
		{
			name: "My timetable aggregates all enrolled classes", method: http.MethodGet, path: "/v1/me/timetable", token: studentToken,
			wantCode: http.StatusOK, wantData: marchallList(t, slot1, slot2),
		},
		{
			name: "My timetable is empty for strangers", method: http.MethodGet, path: "/v1/me/timetable", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Add & remove slot", func(t *testing.T) {
		body := marchallObj(t, school.NewTimetableSlot{Weekday: 1, StartTime: "11:00", EndTime: "12:00", Room: "B3"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/classes/"+cls1.ID+"/slots", adminToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var slot school.TimetableSlot
		if err := json.Unmarshal(rec.Body.Bytes(), &slot); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if slot.StartMin != 11*60 || slot.EndMin != 12*60 {
			t.Errorf("failed! slot = %+v", slot)
		}

		req, rec = newAuthRequest(http.MethodDelete, "/v1/classes/"+cls1.ID+"/slots/"+slot.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		// gone now
		req, rec = newAuthRequest(http.MethodDelete, "/v1/classes/"+cls1.ID+"/slots/"+slot.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_schoolApi_enrollments(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	cls := createClass(t, "cs101", "Intro to Computer Science", teacher.ID)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)

	t.Run("Enroll: admin required", func(t *testing.T) {
		body := marchallObj(t, EnrollRequest{StudentID: student.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/classes/"+cls.ID+"/enrollments", teacherToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("Enroll", func(t *testing.T) {
		body := marchallObj(t, EnrollRequest{StudentID: student.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/classes/"+cls.ID+"/enrollments", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}

		// enrolling twice complains
		req, rec = newAuthRequest(http.MethodPost, "/v1/classes/"+cls.ID+"/enrollments", adminToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "student is already enrolled in this class"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Roster: staff only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/roster", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("Roster", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/roster", teacherToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var enrs []school.Enrollment
		if err := json.Unmarshal(rec.Body.Bytes(), &enrs); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(enrs) != 1 || enrs[0].StudentID != student.ID {
			t.Errorf("failed! roster = %+v", enrs)
		}
	})

	t.Run("Unenroll", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/classes/"+cls.ID+"/enrollments/"+student.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		// not enrolled anymore
		req, rec = newAuthRequest(http.MethodDelete, "/v1/classes/"+cls.ID+"/enrollments/"+student.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_schoolApi_attendance(t *testing.T) {
	resetDB(t)

	testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	stranger := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, true)

	cls := createClass(t, "cs101", "Intro to Computer Science", teacher.ID)
	if err := schoolSvc.Enroll(cls.ID, student.ID); err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)
	attendancePath := "/v1/classes/" + cls.ID + "/attendance"

	t.Run("Record: staff only", func(t *testing.T) {
		body := marchallObj(t, school.NewAttendance{StudentID: student.ID, Date: "2026-03-02", Status: "Present"})
		req, rec := newAuthRequest(http.MethodPost, attendancePath, studentToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("Record: student must be enrolled", func(t *testing.T) {
		body := marchallObj(t, school.NewAttendance{StudentID: stranger.ID, Date: "2026-03-02", Status: "Present"})
		req, rec := newAuthRequest(http.MethodPost, attendancePath, teacherToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "student is not enrolled in this class"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Record", func(t *testing.T) {
		body := marchallObj(t, school.NewAttendance{StudentID: student.ID, Date: "2026-03-02", Status: "Present"})
		req, rec := newAuthRequest(http.MethodPost, attendancePath, teacherToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var attRec school.AttendanceRecord
		if err := json.Unmarshal(rec.Body.Bytes(), &attRec); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if attRec.Status != school.AttendancePresent { // lowered
			t.Errorf("failed! status = %v; want %v", attRec.Status, school.AttendancePresent)
		}
		if attRec.RecordedBy != teacher.ID {
			t.Errorf("failed! recordedBy = %v; want %v", attRec.RecordedBy, teacher.ID)
		}

		// same day again upserts in place
		body = marchallObj(t, school.NewAttendance{StudentID: student.ID, Date: "2026-03-02", Status: "Late"})
		req, rec = newAuthRequest(http.MethodPost, attendancePath, teacherToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}

		req, rec = newAuthRequest(http.MethodGet, attendancePath+"?date=2026-03-02", teacherToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var sheet []school.AttendanceRecord
		if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(sheet) != 1 || sheet[0].Status != school.AttendanceLate {
			t.Errorf("failed! sheet = %+v", sheet)
		}
	})

	t.Run("My attendance", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/me/attendance", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var recs []school.AttendanceRecord
		if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(recs) != 1 || recs[0].StudentID != student.ID {
			t.Errorf("failed! records = %+v", recs)
		}
	})
}
