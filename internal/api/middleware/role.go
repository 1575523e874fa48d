package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exampleapp/example-api/internal/api/metrics"
	"github.com/exampleapp/example-api/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated caller
// holds role. It must run after Auth.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !id.HasRole(role) {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
