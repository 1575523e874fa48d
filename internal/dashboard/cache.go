package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	// MaxLogEntries bounds the cache request log.
	MaxLogEntries = 50
	// DefaultTTL is the TTL in seconds sent when the caller gives none.
	DefaultTTL int64 = 60
)

// Cache actions as they appear in the log.
const (
	ActionPod    = "POD"
	ActionSet    = "SET"
	ActionGet    = "GET"
	ActionDelete = "DELETE"
	ActionKeys   = "KEYS"
)

// CacheEntry is one request in the cache log.
type CacheEntry struct {
	ID           int
	Action       string
	Key          string
	Value        *string
	TTL          *int64
	PodName      string
	Timestamp    string
	ResponseTime time.Duration
	Status       int
	Error        string
}

// CacheHook drives the cache-test endpoints and records each call, newest
// first, keeping at most MaxLogEntries.
type CacheHook struct {
	client *Client
	now    func() time.Time

	mu      sync.Mutex
	loading bool
	log     []CacheEntry
	nextID  int
}

func NewCacheHook(client *Client) *CacheHook {
	return &CacheHook{client: client, now: time.Now}
}

func (h *CacheHook) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

// Log returns the entries newest first.
func (h *CacheHook) Log() []CacheEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.log)
}

// Clear empties the log and restarts entry ids.
func (h *CacheHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log = nil
	h.nextID = 0
}

type cacheResult struct {
	Action    string  `json:"action"`
	Key       string  `json:"key"`
	Value     *string `json:"value"`
	TTL       *int64  `json:"ttl"`
	PodName   string  `json:"podName"`
	Timestamp string  `json:"timestamp"`
}

type keysResult struct {
	Keys      []string `json:"keys"`
	Count     int      `json:"count"`
	PodName   string   `json:"podName"`
	Timestamp string   `json:"timestamp"`
}

// call runs fn, times it and appends the resulting entry to the log.
func (h *CacheHook) call(entry CacheEntry, fn func(e *CacheEntry) (int, error)) (CacheEntry, error) {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	start := h.now()
	status, err := fn(&entry)
	entry.ResponseTime = h.now().Sub(start)
	entry.Status = status
	if err != nil {
		entry.Error = ErrorMessage(err)
		entry.PodName = "unknown"
		if entry.Timestamp == "" {
			entry.Timestamp = h.now().UTC().Format(time.RFC3339Nano)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	h.nextID++
	entry.ID = h.nextID
	h.log = append([]CacheEntry{entry}, h.log...)
	if len(h.log) > MaxLogEntries {
		h.log = h.log[:MaxLogEntries]
	}
	return entry, err
}

func (h *CacheHook) Pod(ctx context.Context) (CacheEntry, error) {
	return h.call(CacheEntry{Action: ActionPod}, func(e *CacheEntry) (int, error) {
		var res struct {
			PodName   string `json:"podName"`
			Timestamp string `json:"timestamp"`
		}
		status, err := h.client.do(ctx, http.MethodGet, "/api/cache-test/pod", true, nil, &res)
		e.PodName, e.Timestamp = res.PodName, res.Timestamp
		return status, err
	})
}

// Set stores key=value. A ttl of zero or less sends DefaultTTL.
func (h *CacheHook) Set(ctx context.Context, key, value string, ttl int64) (CacheEntry, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	entry := CacheEntry{Action: ActionSet, Key: key, Value: &value, TTL: &ttl}
	return h.call(entry, func(e *CacheEntry) (int, error) {
		body := map[string]any{"key": key, "value": value, "ttl": ttl}
		var res cacheResult
		status, err := h.client.do(ctx, http.MethodPost, "/api/cache-test/set", true, body, &res)
		if err == nil {
			e.Value, e.TTL = res.Value, res.TTL
			e.PodName, e.Timestamp = res.PodName, res.Timestamp
		}
		return status, err
	})
}

func (h *CacheHook) Get(ctx context.Context, key string) (CacheEntry, error) {
	return h.keyCall(ctx, ActionGet, http.MethodGet, "/api/cache-test/get/", key)
}

func (h *CacheHook) Delete(ctx context.Context, key string) (CacheEntry, error) {
	return h.keyCall(ctx, ActionDelete, http.MethodDelete, "/api/cache-test/delete/", key)
}

func (h *CacheHook) keyCall(ctx context.Context, action, method, prefix, key string) (CacheEntry, error) {
	return h.call(CacheEntry{Action: action, Key: key}, func(e *CacheEntry) (int, error) {
		var res cacheResult
		status, err := h.client.do(ctx, method, prefix+url.PathEscape(key), true, nil, &res)
		if err == nil {
			e.Value = res.Value
			e.PodName, e.Timestamp = res.PodName, res.Timestamp
		}
		return status, err
	})
}

// Keys lists the cache keys; the entry value reads "N keys: a, b".
func (h *CacheHook) Keys(ctx context.Context) (CacheEntry, error) {
	return h.call(CacheEntry{Action: ActionKeys}, func(e *CacheEntry) (int, error) {
		var res keysResult
		status, err := h.client.do(ctx, http.MethodGet, "/api/cache-test/keys", true, nil, &res)
		if err == nil {
			v := fmt.Sprintf("%d keys: %s", res.Count, strings.Join(res.Keys, ", "))
			e.Value = &v
			e.PodName, e.Timestamp = res.PodName, res.Timestamp
		}
		return status, err
	})
}
