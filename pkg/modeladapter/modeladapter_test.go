package modeladapter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saberchat/saber/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_DefaultAuth(t *testing.T) {
	a := modeladapter.New("https://example.com", modeladapter.Auth{Key: "secret"}, nil)

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/v1/x", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/v1/x", req.URL.String())
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
}

func TestNewRequest_CustomHeaderAuth(t *testing.T) {
	a := modeladapter.New("https://example.com", modeladapter.Auth{
		Key:    "secret",
		Header: "x-goog-api-key",
	}, nil)

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/", nil)
	require.NoError(t, err)

	assert.Equal(t, "secret", req.Header.Get("x-goog-api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestNewRequest_ExtraHeaders(t *testing.T) {
	a := modeladapter.New("https://example.com", modeladapter.Auth{}, nil)
	a.Headers = map[string]string{"x-custom": "v"}

	req, err := a.NewRequest(context.Background(), http.MethodGet, "/", nil)
	require.NoError(t, err)

	assert.Equal(t, "v", req.Header.Get("x-custom"))
}

func TestPostJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, nil)

	var dest struct {
		OK bool `json:"ok"`
	}
	err := a.PostJSON(context.Background(), "/", map[string]any{"q": 1}, &dest)
	require.NoError(t, err)
	assert.True(t, dest.OK)
}

func TestPostJSON_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, nil)

	err := a.PostJSON(context.Background(), "/", nil, nil)
	require.Error(t, err)

	var statusErr *modeladapter.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad key")
}

func TestModelAdapter_CompleteStub(t *testing.T) {
	a := modeladapter.New("https://example.com", modeladapter.Auth{}, nil)

	_, err := a.Complete(context.Background(), nil)
	require.Error(t, err)
}
