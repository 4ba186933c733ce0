package rolegate

import "strings"

// Role is a claim parsed once at the boundary into its namespace and name.
// A claim without a namespace separator is a legacy role: it never grants
// access and only exists to be flagged.
type Role struct {
	Namespace string
	Name      string
}

// IsLegacy reports whether the claim carried no namespace prefix.
func (r Role) IsLegacy() bool { return r.Namespace == "" }

// ParseClaim splits a raw role claim on the first ':'. Namespace and name are
// lower-cased; surrounding whitespace is dropped.
func ParseClaim(claim string) Role {
	claim = strings.TrimSpace(claim)
	namespace, name, found := strings.Cut(claim, ":")
	if !found {
		return Role{Name: strings.ToLower(claim)}
	}
	return Role{
		Namespace: strings.ToLower(strings.TrimSpace(namespace)),
		Name:      strings.ToLower(strings.TrimSpace(name)),
	}
}

// ParseClaims parses every non-empty claim in order.
func ParseClaims(claims []string) []Role {
	roles := make([]Role, 0, len(claims))
	for _, claim := range claims {
		if strings.TrimSpace(claim) == "" {
			continue
		}
		roles = append(roles, ParseClaim(claim))
	}
	return roles
}
