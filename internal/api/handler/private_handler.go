package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// PrivateHandler serves routes that only need a valid token.
type PrivateHandler struct{}

func NewPrivateHandler() *PrivateHandler {
	return &PrivateHandler{}
}

type meResponse struct {
	Sub       string     `json:"sub"`
	Email     *string    `json:"email"`
	Name      *string    `json:"name"`
	Picture   *string    `json:"picture"`
	Groups    []string   `json:"groups"`
	Issuer    *string    `json:"issuer"`
	IssuedAt  *time.Time `json:"issuedAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type protectedResponse struct {
	Message       string `json:"message"`
	User          string `json:"user"`
	Authenticated bool   `json:"authenticated"`
}

// Me handles GET /api/me.
//
// @Summary      Caller's identity
// @Tags         private
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/me [get]
func (h *PrivateHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		Sub:       id.Subject,
		Email:     optional(id.Email),
		Name:      optional(id.Name),
		Picture:   optional(id.Picture),
		Groups:    id.Groups,
		Issuer:    optional(id.Issuer),
		IssuedAt:  id.IssuedAt,
		ExpiresAt: id.ExpiresAt,
	})
}

// Protected handles GET /api/protected.
//
// @Summary      Token-protected sample
// @Tags         private
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  protectedResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/protected [get]
func (h *PrivateHandler) Protected(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protectedResponse{
		Message:       "This is a protected endpoint",
		User:          subjectOrUnknown(id),
		Authenticated: true,
	})
}

// optional maps an absent claim to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
