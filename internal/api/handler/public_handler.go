package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// AppInfo describes the running build.
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// PublicHandler serves the unauthenticated /api/public routes.
type PublicHandler struct {
	info AppInfo
	now  func() time.Time
}

func NewPublicHandler(info AppInfo) *PublicHandler {
	return &PublicHandler{info: info, now: time.Now}
}

type timeResponse struct {
	Timestamp int64  `json:"timestamp"`
	ISO       string `json:"iso"`
	Timezone  string `json:"timezone"`
}

// Health handles GET /api/public/health.
//
// @Summary      Public health check
// @Tags         public
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/public/health [get]
func (h *PublicHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /api/public/info.
//
// @Summary      Application info
// @Tags         public
// @Produce      json
// @Success      200  {object}  AppInfo
// @Router       /api/public/info [get]
func (h *PublicHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, h.info)
}

// Time handles GET /api/public/time.
//
// @Summary      Server time
// @Tags         public
// @Produce      json
// @Success      200  {object}  timeResponse
// @Router       /api/public/time [get]
func (h *PublicHandler) Time(c echo.Context) error {
	now := h.now()
	return c.JSON(http.StatusOK, timeResponse{
		Timestamp: now.UnixMilli(),
		ISO:       now.UTC().Format(time.RFC3339Nano),
		Timezone:  now.Location().String(),
	})
}
