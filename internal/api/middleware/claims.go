package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/exampleapp/example-api/internal/core/domain"
)

// GroupsFromClaims reads claimName as either a list of strings or a single
// space-delimited string. Any other shape yields no groups.
func GroupsFromClaims(claims map[string]any, claimName string) []string {
	switch v := claims[claimName].(type) {
	case []string:
		return compact(v)
	case []any:
		groups := make([]string, 0, len(v))
		for _, g := range v {
			if s, ok := g.(string); ok {
				groups = append(groups, s)
			}
		}
		return compact(groups)
	case string:
		return strings.Fields(v)
	default:
		return nil
	}
}

// RolesFromClaims maps every group in claimName to prefix+group.
func RolesFromClaims(claims map[string]any, claimName, prefix string) []string {
	groups := GroupsFromClaims(claims, claimName)
	if len(groups) == 0 {
		return nil
	}
	roles := make([]string, len(groups))
	for i, g := range groups {
		roles[i] = prefix + g
	}
	return roles
}

// IdentityFromClaims builds the request Identity from verified claims.
func IdentityFromClaims(claims jwt.MapClaims, groupsClaim string) *domain.Identity {
	id := &domain.Identity{
		Email:   stringClaim(claims, "email"),
		Name:    stringClaim(claims, "name"),
		Picture: stringClaim(claims, "picture"),
		Groups:  GroupsFromClaims(claims, groupsClaim),
		Roles:   RolesFromClaims(claims, groupsClaim, domain.RolePrefix),
	}
	id.Subject, _ = claims.GetSubject()
	id.Issuer, _ = claims.GetIssuer()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.UTC()
		id.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.UTC()
		id.ExpiresAt = &t
	}
	return id
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

func compact(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
