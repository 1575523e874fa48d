package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", StaticToken("tok"), srv.Client())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_SendsBearerOnlyWhenAuthenticated(t *testing.T) {
	var got []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{}`)
	}))

	_, err := c.do(context.Background(), http.MethodGet, "/a", false, nil, nil)
	require.NoError(t, err)
	_, err = c.do(context.Background(), http.MethodGet, "/b", true, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok"}, got)
}

func TestClient_MissingTokenFailsBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""), nil)
	status, err := c.do(context.Background(), http.MethodGet, "/api/me", true, nil, nil)

	assert.ErrorIs(t, err, ErrNoToken)
	assert.Zero(t, status)
	assert.False(t, called)
}

func TestClient_ErrorEnvelopeMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"status":404,"error":"Not Found","message":"Item with id 9 not found"}`)
	}))

	status, err := c.do(context.Background(), http.MethodGet, "/api/items/9", true, nil, nil)

	assert.Equal(t, http.StatusNotFound, status)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "404: Item with id 9 not found", ErrorMessage(err))
}

func TestClient_ErrorWithoutBodyUsesStatusText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.do(context.Background(), http.MethodGet, "/x", false, nil, nil)

	assert.Equal(t, "502: Bad Gateway", ErrorMessage(err))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "Network: dial tcp: refused", ErrorMessage(errors.New("dial tcp: refused")))
	assert.Equal(t, "403: Access Denied", ErrorMessage(&APIError{Status: 403, Message: "Access Denied"}))
}

func TestNewClient_DefaultHasNoTimeout(t *testing.T) {
	c := NewClient("http://api.local/", nil, nil)

	assert.Zero(t, c.http.Timeout)
	assert.Equal(t, "http://api.local", c.baseURL)
}
