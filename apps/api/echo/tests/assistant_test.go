package tests

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"

	. "github.com/academia-hq/academia/apps/api/echo"
	"github.com/academia-hq/academia/core/assistant"
)

func Test_assistantApi_chat(t *testing.T) {
	resetDB(t)

	tests := []httpTest{
		{
			name: "message required", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, assistant.ChatRequest{}),
			wantData: marchallObj(t, httpErr{Error: "message is required"}),
		},
		{
			name: "whitespace only", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, assistant.ChatRequest{Message: "   \t  "}),
			wantData: marchallObj(t, httpErr{Error: "message is required"}),
		},
		{
			name: "model endpoint down", wantCode: http.StatusServiceUnavailable,
			body:     marchallObj(t, assistant.ChatRequest{Message: "hello"}),
			extra:    errors.New("connection refused"),
			wantData: marchallObj(t, httpErr{Error: "AI service unavailable"}),
		},
		{
			name: "plain question", wantCode: http.StatusOK,
			body:     marchallObj(t, assistant.ChatRequest{Message: "what certifications do you offer?"}),
			wantData: marchallObj(t, ChatResponse{Reply: "mocked reply"}),
		},
		{
			name: "with certification and user data", wantCode: http.StatusOK,
			body: marchallObj(t, assistant.ChatRequest{
				Message:         "am I ready for this exam?",
				CertificationID: "aws-saa",
				UserData:        map[string]interface{}{"name": "Hero", "role": "student"},
			}),
			wantData: marchallObj(t, ChatResponse{Reply: "mocked reply"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/chat"

		t.Run(tt.name, func(t *testing.T) {
			completer.reset()
			if err, ok := tt.extra.(error); ok {
				completer.err = err
			}

			// no auth: the chat widget is public
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
