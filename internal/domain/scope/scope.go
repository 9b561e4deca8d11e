// internal/domain/scope/scope.go
package scope

import "strings"

// Scope identifies which instance's records an operation acts on. The zero
// value is the global (legacy) scope: records written before instances
// existed carry no tenant id at all.
type Scope struct {
	tenant string
}

// Global returns the legacy/global scope.
func Global() Scope {
	return Scope{}
}

// Tenant returns a scope bound to one instance. A blank or whitespace-only
// id collapses to the global scope.
func Tenant(id string) Scope {
	return Scope{tenant: strings.TrimSpace(id)}
}

// IsGlobal reports whether the scope carries no instance id.
func (s Scope) IsGlobal() bool {
	return s.tenant == ""
}

// TenantID returns the instance id, or "" for the global scope.
func (s Scope) TenantID() string {
	return s.tenant
}

func (s Scope) String() string {
	if s.tenant == "" {
		return "global"
	}
	return s.tenant
}
