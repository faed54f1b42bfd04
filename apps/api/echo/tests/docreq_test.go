package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/academia-hq/academia/core/docreq"
	"github.com/academia-hq/academia/core/user"
	"github.com/academia-hq/academia/services/email"
	"github.com/academia-hq/academia/tests"
)

func createDocRequest(t *testing.T, studentID, docType string) docreq.Request {
	t.Helper()
	req, err := docreqSvc.Create(studentID, docreq.NewRequest{Type: docType})
	if err != nil {
		t.Fatalf("createDocRequest() failed: %v", err)
	}
	return req
}

func Test_docreqApi_requests(t *testing.T) {
	resetDB(t)
	emailsvc.SentMessages = nil // reset

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, true)

	req1 := createDocRequest(t, student.ID, docreq.TypeTranscript)
	time.Sleep(time.Millisecond)
	req2 := createDocRequest(t, other.ID, docreq.TypeGradeReport)

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/document-requests", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Students only see their own requests", method: http.MethodGet, path: "/v1/document-requests", token: studentToken,
			wantCode: http.StatusOK, wantData: marchallList(t, req1),
		},
		{
			name: "Admins see all requests", method: http.MethodGet, path: "/v1/document-requests", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, req2, req1),
		},
		{
			name: "Retrieve", method: http.MethodGet, path: "/v1/document-requests/" + req1.ID, token: studentToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, req1),
		},
		{
			name: "Others' requests are invisible", method: http.MethodGet, path: "/v1/document-requests/" + req2.ID, token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Create: students only", method: http.MethodPost, path: "/v1/document-requests", token: getToken(t, teacher),
			body:     marchallObj(t, docreq.NewRequest{Type: docreq.TypeTranscript}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Create: invalid document type", method: http.MethodPost, path: "/v1/document-requests", token: studentToken,
			body:     marchallObj(t, docreq.NewRequest{Type: "diploma"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"type": "invalid document type"}),
		},
		{
			name: "Decide: admin required", method: http.MethodPut, path: "/v1/document-requests/" + req1.ID + "/decision", token: studentToken,
			body:     marchallObj(t, docreq.Decision{Approve: true}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Mark ready: only approved requests", method: http.MethodPut, path: "/v1/document-requests/" + req1.ID + "/ready", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "only an approved request can be marked ready"}),
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
		body := marchallObj(t, docreq.NewRequest{Type: "Enrollment_Certificate"}) // case-insensitive
		req, rec := newAuthRequest(http.MethodPost, "/v1/document-requests", studentToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var dr docreq.Request
		if err := json.Unmarshal(rec.Body.Bytes(), &dr); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if !strings.HasPrefix(dr.Reference, "DR-") {
			t.Errorf("failed! reference = %v", dr.Reference)
		}
		if dr.Type != docreq.TypeEnrollmentCert || dr.Status != docreq.StatusPending {
			t.Errorf("failed! request = %+v", dr)
		}
	})

	t.Run("Decide & mark ready", func(t *testing.T) {
		emailsvc.SentMessages = nil // reset

		body := marchallObj(t, docreq.Decision{Approve: true, Note: "ok"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/document-requests/"+req1.ID+"/decision", adminToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var dr docreq.Request
		if err := json.Unmarshal(rec.Body.Bytes(), &dr); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if dr.Status != docreq.StatusApproved || dr.DecidedBy.String != admin.ID {
			t.Errorf("failed! request = %+v", dr)
		}

		// the student got notified
		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
		}
		msg := emailsvc.SentMessages[0]
		if msg.To[0].Address != student.Email {
			t.Errorf("failed! To = %v; want %v", msg.To[0].Address, student.Email)
		}
		if !strings.Contains(msg.Subject, dr.Reference) {
			t.Errorf("failed! subject %q does not mention %q", msg.Subject, dr.Reference)
		}

		// deciding twice complains
		req, rec = newAuthRequest(http.MethodPut, "/v1/document-requests/"+req1.ID+"/decision", adminToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "document request has already been decided"}),
		}
		checkCodeAndData(t, tt, rec)

		// ready now
		req, rec = newAuthRequest(http.MethodPut, "/v1/document-requests/"+req1.ID+"/ready", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &dr); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if dr.Status != docreq.StatusReady {
			t.Errorf("failed! status = %v; want %v", dr.Status, docreq.StatusReady)
		}
	})
}
