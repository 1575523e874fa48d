package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	PublicEndpoints  = []string{"/api/public/health", "/api/public/info", "/api/public/time"}
	PrivateEndpoints = []string{"/api/me", "/api/protected", "/api/admin/stats"}
)

// CheckResult is the outcome of probing one endpoint.
type CheckResult struct {
	Endpoint     string
	Status       int
	Data         json.RawMessage
	Error        string
	ResponseTime time.Duration
}

func (r CheckResult) OK() bool { return r.Error == "" }

// HealthHook probes groups of endpoints in parallel.
type HealthHook struct {
	client *Client

	mu      sync.Mutex
	loading bool
	results []CheckResult
}

func NewHealthHook(client *Client) *HealthHook {
	return &HealthHook{client: client}
}

func (h *HealthHook) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *HealthHook) Results() []CheckResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.results)
}

func (h *HealthHook) CheckPublic(ctx context.Context) []CheckResult {
	return h.check(ctx, PublicEndpoints, false)
}

func (h *HealthHook) CheckPrivate(ctx context.Context) []CheckResult {
	return h.check(ctx, PrivateEndpoints, true)
}

// check issues every request at once. Individual failures land in their
// result; the call itself never fails.
func (h *HealthHook) check(ctx context.Context, endpoints []string, auth bool) []CheckResult {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	results := make([]CheckResult, len(endpoints))
	var g errgroup.Group
	for i, endpoint := range endpoints {
		g.Go(func() error {
			start := time.Now()
			var data json.RawMessage
			status, err := h.client.do(ctx, http.MethodGet, endpoint, auth, nil, &data)
			res := CheckResult{
				Endpoint:     endpoint,
				Status:       status,
				Data:         data,
				ResponseTime: time.Since(start),
			}
			if err != nil {
				res.Error = ErrorMessage(err)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	h.results = results
	return slices.Clone(results)
}
