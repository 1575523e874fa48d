package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/exampleapp/example-api/internal/api/middleware"
	"github.com/exampleapp/example-api/internal/core/domain"
)

func TestPrivateHandler_Me(t *testing.T) {
	iat := testTime
	exp := testTime.Add(time.Hour)
	handler := NewPrivateHandler()

	c, rec := newItemContext(http.MethodGet, "/api/me", "")
	middleware.SetIdentity(c, &domain.Identity{
		Subject:   "auth0|alice",
		Email:     "alice@example.com",
		Groups:    []string{"admin"},
		Issuer:    "https://idp.example.com/",
		IssuedAt:  &iat,
		ExpiresAt: &exp,
	})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeMap(t, rec.Body.Bytes())
	if resp["sub"] != "auth0|alice" || resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if v, ok := resp["picture"]; !ok || v != nil {
		t.Fatalf("expected null picture, got %+v", resp)
	}
	if resp["expiresAt"] != "2026-03-01T13:00:00Z" {
		t.Fatalf("unexpected expiresAt: %v", resp["expiresAt"])
	}
}

func TestPrivateHandler_Protected(t *testing.T) {
	handler := NewPrivateHandler()

	c, rec := newItemContext(http.MethodGet, "/api/protected", "")
	middleware.SetIdentity(c, &domain.Identity{})

	if err := handler.Protected(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeMap(t, rec.Body.Bytes())
	if resp["user"] != "unknown" || resp["authenticated"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPrivateHandler_NoIdentity(t *testing.T) {
	handler := NewPrivateHandler()

	c, _ := newItemContext(http.MethodGet, "/api/me", "")
	expectHTTPError(t, handler.Me(c), http.StatusUnauthorized)
}

func TestAdminHandler_Stats(t *testing.T) {
	handler := NewAdminHandler()
	handler.now = func() time.Time { return testTime }

	c, rec := newItemContext(http.MethodGet, "/api/admin/stats", "")
	middleware.SetIdentity(c, &domain.Identity{Subject: "root", Roles: []string{domain.RoleAdmin}})

	if err := handler.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeMap(t, rec.Body.Bytes())
	if resp["admin"] != "root" || resp["serverTime"] != float64(testTime.UnixMilli()) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	mem, ok := resp["memory"].(map[string]any)
	if !ok || mem["used"].(float64) <= 0 {
		t.Fatalf("unexpected memory stats: %+v", resp["memory"])
	}
	if resp["activeGoroutines"].(float64) < 1 {
		t.Fatalf("expected goroutine count")
	}
}
