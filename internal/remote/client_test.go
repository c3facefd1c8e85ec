package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Prompt(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PromptPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"text":"an essay about socks"}`))
	}))
	defer srv.Close()

	text, err := New(srv.URL + "/").Prompt(context.Background(), "socks")
	require.NoError(t, err)
	assert.Equal(t, "an essay about socks", text)
	assert.Equal(t, "socks", got.Prompt)
}

func TestClient_RephrasePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RephrasePath, r.URL.Path)
		w.Write([]byte(`{"text":"reworded"}`))
	}))
	defer srv.Close()

	text, err := New(srv.URL).Rephrase(context.Background(), "words")
	require.NoError(t, err)
	assert.Equal(t, "reworded", text)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"text":"ignored"}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusInternalServerError, se.Code)
			},
		},
		{
			name:   "missing text",
			status: http.StatusOK,
			body:   `{"answer":"hi"}`,
			check:  func(t *testing.T, err error) { require.ErrorIs(t, err, ErrNoText) },
		},
		{
			name:   "empty text",
			status: http.StatusOK,
			body:   `{"text":""}`,
			check:  func(t *testing.T, err error) { require.ErrorIs(t, err, ErrNoText) },
		},
		{
			name:   "text not a string",
			status: http.StatusOK,
			body:   `{"text":42}`,
			check:  func(t *testing.T, err error) { require.ErrorIs(t, err, ErrNoText) },
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>bad gateway</html>`,
			check:  func(t *testing.T, err error) { require.ErrorIs(t, err, ErrNoText) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Prompt(context.Background(), "x")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Prompt(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoText)
}
