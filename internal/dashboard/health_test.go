package dashboard

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHook_CheckPublic(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"status":"ok"}`)
	}))
	h := NewHealthHook(c)

	results := h.CheckPublic(context.Background())

	require.Len(t, results, len(PublicEndpoints))
	for i, r := range results {
		assert.Equal(t, PublicEndpoints[i], r.Endpoint)
		assert.Equal(t, http.StatusOK, r.Status)
		assert.True(t, r.OK())
		assert.JSONEq(t, `{"status":"ok"}`, string(r.Data))
	}
	assert.Equal(t, results, h.Results())
	assert.False(t, h.Loading())
}

func TestHealthHook_CheckPrivateMixedOutcome(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if r.URL.Path == "/api/admin/stats" {
			writeJSON(w, http.StatusForbidden, `{"status":403,"error":"Forbidden","message":"Access Denied"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"authenticated":true}`)
	}))

	results := NewHealthHook(c).CheckPrivate(context.Background())

	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.Equal(t, http.StatusForbidden, results[2].Status)
	assert.Equal(t, "403: Access Denied", results[2].Error)
}

func TestHealthHook_RequestsRunConcurrently(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		if inFlight == len(PublicEndpoints) {
			close(release)
		}
		mu.Unlock()

		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}

		mu.Lock()
		inFlight--
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{}`)
	}))

	NewHealthHook(c).CheckPublic(context.Background())

	assert.Equal(t, len(PublicEndpoints), peak)
}

func TestHealthHook_NetworkFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", StaticToken("tok"), &http.Client{Timeout: time.Second})

	results := NewHealthHook(c).CheckPublic(context.Background())

	for _, r := range results {
		assert.Zero(t, r.Status)
		assert.Contains(t, r.Error, "Network: ")
	}
}
