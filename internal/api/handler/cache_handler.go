package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exampleapp/example-api/internal/api/metrics"
	"github.com/exampleapp/example-api/internal/core/ports"
)

// CacheHandler exercises the shared Redis instance so operators can see which
// replica served a request. It is independent of the items pipeline.
type CacheHandler struct {
	store      ports.CacheStore
	podName    string
	defaultTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

func NewCacheHandler(store ports.CacheStore, podName string, defaultTTL time.Duration, logger zerolog.Logger) *CacheHandler {
	return &CacheHandler{
		store:      store,
		podName:    podName,
		defaultTTL: defaultTTL,
		logger:     logger,
		now:        time.Now,
	}
}

type cacheSetRequest struct {
	Key   string `json:"key"   validate:"notblank" message:"Key is required"`
	Value string `json:"value" validate:"notblank" message:"Value is required"`
	// TTL is in seconds; omitted means the configured default. The upper
	// bound keeps the value within a time.Duration.
	TTL *int64 `json:"ttl" validate:"omitnil,gt=0,lte=9223372036" message:"gt=TTL must be positive|lte=TTL must not exceed 9223372036 seconds"`
}

type podResponse struct {
	PodName   string `json:"podName"`
	Timestamp string `json:"timestamp"`
}

type cacheResponse struct {
	Action    string  `json:"action"`
	Key       string  `json:"key"`
	Value     *string `json:"value"`
	TTL       *int64  `json:"ttl,omitempty"`
	PodName   string  `json:"podName"`
	Timestamp string  `json:"timestamp"`
}

type keysResponse struct {
	Keys      []string `json:"keys"`
	Count     int      `json:"count"`
	PodName   string   `json:"podName"`
	Timestamp string   `json:"timestamp"`
}

func (h *CacheHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

// Pod handles GET /api/cache-test/pod.
//
// @Summary      Serving replica
// @Tags         cache-test
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  podResponse
// @Router       /api/cache-test/pod [get]
func (h *CacheHandler) Pod(c echo.Context) error {
	return c.JSON(http.StatusOK, podResponse{PodName: h.podName, Timestamp: h.timestamp()})
}

// Set handles POST /api/cache-test/set.
//
// @Summary      Store a value
// @Tags         cache-test
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cacheSetRequest  true  "Key, value and optional TTL in seconds"
// @Success      200   {object}  cacheResponse
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/cache-test/set [post]
func (h *CacheHandler) Set(c echo.Context) error {
	var req cacheSetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ttl := h.defaultTTL
	if req.TTL != nil {
		ttl = time.Duration(*req.TTL) * time.Second
	}
	seconds := int64(ttl / time.Second)

	if err := h.store.Set(c.Request().Context(), req.Key, req.Value, ttl); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues("set", metrics.ResultError).Inc()
		return err
	}
	metrics.CacheOperationsTotal.WithLabelValues("set", metrics.ResultSuccess).Inc()
	h.logger.Info().Str("key", req.Key).Int64("ttl_seconds", seconds).Msg("cache key set")

	return c.JSON(http.StatusOK, cacheResponse{
		Action:    "SET",
		Key:       req.Key,
		Value:     &req.Value,
		TTL:       &seconds,
		PodName:   h.podName,
		Timestamp: h.timestamp(),
	})
}

// Get handles GET /api/cache-test/get/:key. A missing or expired key yields a
// null value, not an error.
//
// @Summary      Read a value
// @Tags         cache-test
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Key without prefix"
// @Success      200  {object}  cacheResponse
// @Router       /api/cache-test/get/{key} [get]
func (h *CacheHandler) Get(c echo.Context) error {
	key := c.Param("key")
	val, found, err := h.store.Get(c.Request().Context(), key)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues("get", metrics.ResultError).Inc()
		return err
	}

	resp := cacheResponse{Action: "GET", Key: key, PodName: h.podName, Timestamp: h.timestamp()}
	if found {
		resp.Value = &val
		metrics.CacheOperationsTotal.WithLabelValues("get", "hit").Inc()
	} else {
		metrics.CacheOperationsTotal.WithLabelValues("get", "miss").Inc()
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/cache-test/delete/:key.
//
// @Summary      Delete a value
// @Tags         cache-test
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Key without prefix"
// @Success      200  {object}  cacheResponse
// @Router       /api/cache-test/delete/{key} [delete]
func (h *CacheHandler) Delete(c echo.Context) error {
	key := c.Param("key")
	deleted, err := h.store.Delete(c.Request().Context(), key)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues("delete", metrics.ResultError).Inc()
		return err
	}

	outcome, result := "not found", "miss"
	if deleted {
		outcome, result = "deleted", "hit"
	}
	metrics.CacheOperationsTotal.WithLabelValues("delete", result).Inc()
	h.logger.Info().Str("key", key).Bool("deleted", deleted).Msg("cache key delete")

	return c.JSON(http.StatusOK, cacheResponse{
		Action:    "DELETE",
		Key:       key,
		Value:     &outcome,
		PodName:   h.podName,
		Timestamp: h.timestamp(),
	})
}

// Keys handles GET /api/cache-test/keys.
//
// @Summary      List cache-test keys
// @Tags         cache-test
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  keysResponse
// @Router       /api/cache-test/keys [get]
func (h *CacheHandler) Keys(c echo.Context) error {
	keys, err := h.store.Keys(c.Request().Context())
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues("keys", metrics.ResultError).Inc()
		return err
	}
	metrics.CacheOperationsTotal.WithLabelValues("keys", metrics.ResultSuccess).Inc()

	return c.JSON(http.StatusOK, keysResponse{
		Keys:      keys,
		Count:     len(keys),
		PodName:   h.podName,
		Timestamp: h.timestamp(),
	})
}
