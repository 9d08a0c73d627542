package scope

import (
	"context"
	"errors"
	"strconv"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
)

// ErrInvalidOverride is returned when a privileged caller supplies a tenant
// override that does not parse or does not resolve to a live tenant. The
// request hard-fails instead of silently falling back, so an administrator
// never ends up operating unscoped by accident.
var ErrInvalidOverride = errors.New("tenant override does not resolve to an existing tenant")

// TenantDirectory is the tenant lookup the resolver needs. Soft-deleted
// tenants must not resolve.
type TenantDirectory interface {
	FindByID(ctx context.Context, id uint) (*model.Tenant, error)
}

// Resolver builds the per-request Scope from the authenticated caller's
// claims and the optional privileged tenant override. It must run before any
// tenant-scoped data access in the request.
type Resolver struct {
	tenants TenantDirectory
}

// NewResolver creates a Resolver backed by the given tenant directory.
func NewResolver(tenants TenantDirectory) *Resolver {
	return &Resolver{tenants: tenants}
}

// Resolve applies the resolution order:
//
//  1. privileged caller with an override that resolves -> confined to the
//     overridden tenant,
//  2. tenant-id claim that resolves -> confined to the claimed tenant,
//  3. otherwise unbound; filtering stays on unless the caller is privileged.
//
// An override that fails to parse or resolve returns ErrInvalidOverride;
// an unresolvable claim falls through to rule 3.
func (r *Resolver) Resolve(ctx context.Context, claimTenantID *uint, superuser bool, override string) (*Scope, error) {
	if superuser && override != "" {
		id, err := strconv.ParseUint(override, 10, 32)
		if err != nil {
			return nil, ErrInvalidOverride
		}
		tenant, err := r.tenants.FindByID(ctx, uint(id))
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidOverride
		}
		if err != nil {
			return nil, err
		}
		return PrivilegedForTenant(tenant.ID), nil
	}

	if claimTenantID != nil {
		tenant, err := r.tenants.FindByID(ctx, *claimTenantID)
		switch {
		case err == nil:
			return confined(tenant.ID, superuser), nil
		case errors.Is(err, model.ErrNotFound):
			// stale claim, fall through
		default:
			return nil, err
		}
	}

	return Unbound(superuser), nil
}
