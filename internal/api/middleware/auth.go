package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/exampleapp/example-api/internal/api/metrics"
	"github.com/exampleapp/example-api/internal/core/domain"
)

const identityKey = "identity"

// signingMethods lists the asymmetric algorithms accepted from the identity
// provider. HMAC is refused so a public key can never be used as a secret.
var signingMethods = []string{"RS256", "RS384", "RS512", "PS256", "PS384", "PS512", "ES256", "ES384", "ES512"}

// AuthConfig configures the bearer token gate.
type AuthConfig struct {
	// Keyfunc resolves the verification key for a token, usually backed by
	// a JWKS cache.
	Keyfunc jwt.Keyfunc
	// Issuer and Audience are checked only when non-empty.
	Issuer   string
	Audience string
	// GroupsClaim names the claim holding the caller's groups.
	GroupsClaim string
	Skipper     echomiddleware.Skipper
	Leeway      time.Duration
}

// Auth validates the bearer JWT and stores the caller's Identity in the
// request context.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomiddleware.DefaultSkipper
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(signingMethods)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	parser := jwt.NewParser(opts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := parser.ParseWithClaims(parts[1], claims, cfg.Keyfunc)
			if err != nil || !tkn.Valid {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				msg := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expired"
				}
				return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(err)
			}

			c.Set(identityKey, IdentityFromClaims(claims, cfg.GroupsClaim))
			return next(c)
		}
	}
}

// IdentityFrom returns the caller's Identity, or nil when the request was
// not authenticated.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}
