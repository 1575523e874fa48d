package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	lastTTL int64
}

func (f *fakeCache) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cache-test/pod", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"podName":"pod-a","timestamp":"2026-01-01T00:00:00Z"}`)
	})
	mux.HandleFunc("POST /api/cache-test/set", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Key   string `json:"key"`
			Value string `json:"value"`
			TTL   int64  `json:"ttl"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.data[in.Key] = in.Value
		f.lastTTL = in.TTL
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"action":"SET","key":%q,"value":%q,"ttl":%d,"podName":"pod-a","timestamp":"t"}`, in.Key, in.Value, in.TTL))
	})
	mux.HandleFunc("GET /api/cache-test/get/{key}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		v, ok := f.data[r.PathValue("key")]
		f.mu.Unlock()
		value := "null"
		if ok {
			value = fmt.Sprintf("%q", v)
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"action":"GET","key":%q,"value":%s,"podName":"pod-b","timestamp":"t"}`, r.PathValue("key"), value))
	})
	mux.HandleFunc("DELETE /api/cache-test/delete/{key}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		_, ok := f.data[r.PathValue("key")]
		delete(f.data, r.PathValue("key"))
		f.mu.Unlock()
		result := "not found"
		if ok {
			result = "deleted"
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"action":"DELETE","key":%q,"value":%q,"podName":"pod-a","timestamp":"t"}`, r.PathValue("key"), result))
	})
	mux.HandleFunc("GET /api/cache-test/keys", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		keys := make([]string, 0, len(f.data))
		for k := range f.data {
			keys = append(keys, k)
		}
		f.mu.Unlock()
		sort.Strings(keys)
		raw, _ := json.Marshal(keys)
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"keys":%s,"count":%d,"podName":"pod-a","timestamp":"t"}`, raw, len(keys)))
	})
	return mux
}

func newCacheHook(t *testing.T) (*CacheHook, *fakeCache) {
	f := &fakeCache{data: map[string]string{}}
	return NewCacheHook(newTestClient(t, f.handler())), f
}

func TestCacheHook_RoundTrip(t *testing.T) {
	ctx := context.Background()
	h, f := newCacheHook(t)

	pod, err := h.Pod(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pod-a", pod.PodName)

	set, err := h.Set(ctx, "k1", "v1", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, *set.TTL)
	assert.Equal(t, DefaultTTL, f.lastTTL)

	got, err := h.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", *got.Value)
	assert.Equal(t, "pod-b", got.PodName)

	keys, err := h.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1 keys: k1", *keys.Value)

	del, err := h.Delete(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "deleted", *del.Value)

	miss, err := h.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, miss.Value)

	log := h.Log()
	require.Len(t, log, 6)
	assert.Equal(t, ActionGet, log[0].Action)
	assert.Equal(t, ActionPod, log[5].Action)
	assert.Equal(t, 6, log[0].ID)
	assert.Equal(t, http.StatusOK, log[0].Status)
	assert.False(t, h.Loading())
}

func TestCacheHook_LogIsBoundedNewestFirst(t *testing.T) {
	ctx := context.Background()
	h, _ := newCacheHook(t)

	for i := 0; i < MaxLogEntries+5; i++ {
		_, err := h.Pod(ctx)
		require.NoError(t, err)
	}

	log := h.Log()
	require.Len(t, log, MaxLogEntries)
	assert.Equal(t, MaxLogEntries+5, log[0].ID)
	assert.Equal(t, 6, log[len(log)-1].ID)
}

func TestCacheHook_ClearRestartsIDs(t *testing.T) {
	ctx := context.Background()
	h, _ := newCacheHook(t)
	_, _ = h.Pod(ctx)
	_, _ = h.Pod(ctx)

	h.Clear()
	assert.Empty(t, h.Log())

	e, err := h.Pod(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
}

func TestCacheHook_ErrorEntry(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"Request validation failed"}`)
	}))
	h := NewCacheHook(c)

	e, err := h.Set(context.Background(), " ", "v", 5)

	require.Error(t, err)
	assert.Equal(t, "400: Request validation failed", e.Error)
	assert.Equal(t, "unknown", e.PodName)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, int64(5), *e.TTL)
	assert.NotEmpty(t, e.Timestamp)
	assert.Len(t, h.Log(), 1)
}

func TestCacheHook_KeyIsPathEscaped(t *testing.T) {
	var path string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		writeJSON(w, http.StatusOK, `{"action":"GET","key":"a/b","value":null,"podName":"p","timestamp":"t"}`)
	}))

	_, err := NewCacheHook(c).Get(context.Background(), "a/b")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "/get/a%2Fb"), path)
}
