package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia-hq/academia/core"
)

func newTestClient(url string) *Client {
	return NewClient(core.AssistantConfig{
		BaseURL:     url,
		Model:       "local-model",
		Temperature: 0.2,
		Timeout:     5 * time.Second,
	})
}

func TestClientComplete(t *testing.T) {
	blocks := []Block{
		{Role: RoleSystem, Content: IdentityPrompt},
		{Role: RoleUser, Content: "what is the CKA exam like?"},
	}

	t.Run("success", func(t *testing.T) {
		var gotReq completionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "It is hands-on."}}]}`))
		}))
		defer srv.Close()

		reply, err := newTestClient(srv.URL).Complete(context.Background(), blocks)
		require.NoError(t, err)
		assert.Equal(t, "It is hands-on.", reply)
		assert.Equal(t, "local-model", gotReq.Model)
		assert.Equal(t, 0.2, gotReq.Temperature)
		assert.Equal(t, blocks, gotReq.Messages)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Complete(context.Background(), blocks)
		require.Error(t, err)
		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusInternalServerError, upErr.StatusCode)
		assert.Contains(t, upErr.Body, "model overloaded")
	})

	t.Run("malformed json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": [`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Complete(context.Background(), blocks)
		require.Error(t, err)
		assert.Equal(t, ErrMalformedResponse, errors.Cause(err))
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Complete(context.Background(), blocks)
		require.Error(t, err)
		assert.Equal(t, ErrMalformedResponse, errors.Cause(err))
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": ""}}]}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Complete(context.Background(), blocks)
		require.Error(t, err)
		assert.Equal(t, ErrMalformedResponse, errors.Cause(err))
	})

	t.Run("context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestClient(srv.URL).Complete(ctx, blocks)
		require.Error(t, err)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		_, err := newTestClient("http://127.0.0.1:1").Complete(context.Background(), blocks)
		require.Error(t, err)
	})
}
