package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"autocommiter/internal/clients/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommitMessage(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  Add parser tests \n"}}]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL+"/")
	msg, err := c.GenerateCommitMessage(context.Background(), "gpt-4o-mini", "a.go\nb.go", `{"files":[]}`)

	require.NoError(t, err)
	assert.Equal(t, "Add parser tests", msg)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, message{Role: "system", Content: SystemPrompt}, got.Messages[0])
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t,
		"reply only with a very concise but informative commit message, and nothing else:\n\nFiles:\na.go\nb.go\n\nSummaryJSON:{\"files\":[]}",
		got.Messages[1].Content)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non 2xx",
			status: http.StatusUnauthorized,
			body:   `{"error":"bad credentials"}`,
			check: func(t *testing.T, err error) {
				var se *common.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
				assert.Contains(t, se.Body, "bad credentials")
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoContent)
			},
		},
		{
			name:   "null content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"content":null}}]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoContent)
			},
		},
		{
			name:   "missing message",
			status: http.StatusOK,
			body:   `{"choices":[{}]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoContent)
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to unmarshal response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient("k", srv.URL).Complete(context.Background(), "m", "s", "p")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestCompleteCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"x"}}]}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("k", srv.URL).Complete(ctx, "m", "s", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient("k", "")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, common.DefaultTimeout, c.client.Timeout)
}
