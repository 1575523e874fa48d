package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exampleapp/example-api/internal/api/middleware"
	"github.com/exampleapp/example-api/internal/core/domain"
)

// ctxIdentity returns the caller injected by the Auth middleware. Its absence
// means the route was wired without the gate, so the request is rejected.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

func subjectOrUnknown(id *domain.Identity) string {
	if id.Subject == "" {
		return "unknown"
	}
	return id.Subject
}
