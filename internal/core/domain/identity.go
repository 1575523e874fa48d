package domain

import "time"

const (
	// RolePrefix is prepended to every group claim entry.
	RolePrefix = "ROLE_"
	RoleAdmin  = RolePrefix + "admin"
)

// Identity is the validated token's view of the caller. It lives for one
// request and is never persisted.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	Picture   string
	Groups    []string
	Roles     []string
	Issuer    string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// HasRole reports whether role was derived from the token's group claim.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
