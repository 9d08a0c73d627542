// Package scope decides which tenant's data a request may see. A Scope is
// built once per request by the Resolver and passed explicitly to every
// tenant-scoped store call; it is never shared across requests.
package scope

import "errors"

// ErrSwitchForbidden is returned when a non-privileged caller attempts the
// in-request tenant switch.
var ErrSwitchForbidden = errors.New("tenant switch requires a privileged account")

// Scope is the per-request tenant visibility decision. The zero value is not
// usable; scopes are created by the Resolver or the exported constructors.
type Scope struct {
	tenantID  *uint
	superuser bool
	filter    bool
}

// ForTenant returns a scope confined to a single tenant with filtering
// enabled, as resolved for an ordinary tenant-bound caller.
func ForTenant(id uint) *Scope {
	return confined(id, false)
}

// PrivilegedForTenant returns a scope for a privileged caller that chose to
// act as if confined to one tenant (the override / impersonation mode).
// Filtering is enabled exactly as for an ordinary caller.
func PrivilegedForTenant(id uint) *Scope {
	return confined(id, true)
}

// Unbound returns a scope with no tenant. For a privileged caller filtering
// is disabled and reads span all tenants; for anyone else filtering stays on
// and scoped reads match nothing.
func Unbound(superuser bool) *Scope {
	return &Scope{superuser: superuser, filter: !superuser}
}

func confined(id uint, superuser bool) *Scope {
	return &Scope{tenantID: &id, superuser: superuser, filter: true}
}

// TenantID returns the active tenant id, or nil when the scope is unbound.
func (s *Scope) TenantID() *uint {
	if s.tenantID == nil {
		return nil
	}
	id := *s.tenantID
	return &id
}

// FilterEnabled reports whether the tenant predicate applies to reads.
func (s *Scope) FilterEnabled() bool {
	return s.filter
}

// Superuser reports whether the caller holds global administrative rights.
func (s *Scope) Superuser() bool {
	return s.superuser
}

// Switch returns a new scope confined to the given tenant. It is the one
// deliberate way a privileged caller changes tenant mid-request; the original
// scope is left untouched.
func (s *Scope) Switch(tenantID uint) (*Scope, error) {
	if !s.superuser {
		return nil, ErrSwitchForbidden
	}
	return confined(tenantID, true), nil
}
