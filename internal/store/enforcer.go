// Package store is the only path to tenant-scoped persistence. Every read
// carries the scope predicate, every insert is stamped with the scope's
// tenant, and deletes are soft-only. Bypassing the scope is possible solely
// through the methods whose names say so.
package store

import (
	"errors"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"gorm.io/gorm"
)

// ErrTenantIsolationViolation is returned when a tenant-scoped row would be
// written without a resolvable tenant. This is a programming error upstream,
// not a transient condition; the write is rejected and never retried.
var ErrTenantIsolationViolation = errors.New("tenant isolation violation: write without tenant scope")

// ErrProtectedTenant is returned on any attempt to update or delete the
// reserved system tenant.
var ErrProtectedTenant = errors.New("protected system tenant cannot be modified")

// TenantScoped is implemented by every model subject to tenant isolation.
type TenantScoped interface {
	GetTenantID() *uint
	SetTenantID(id uint)
}

// scopeExempt is implemented by rows that may legitimately exist without a
// tenant (superuser accounts).
type scopeExempt interface {
	ScopeExempt() bool
}

// scoped applies the mandatory tenant predicate to a query. gorm's soft
// delete already excludes deleted rows, so the effective predicate is
// "not deleted AND (filtering disabled OR tenant_id = scope tenant)".
// An enabled filter with no tenant matches nothing.
func scoped(db *gorm.DB, sc *scope.Scope) *gorm.DB {
	if !sc.FilterEnabled() {
		return db
	}
	tenantID := sc.TenantID()
	if tenantID == nil {
		return db.Where("1 = 0")
	}
	return db.Where("tenant_id = ?", *tenantID)
}

// stampTenant fixes the tenant of a row about to be inserted. An unset
// tenant is stamped from the scope; an unset tenant with an unbound scope is
// a violation unless the row itself is exempt. A preset tenant that
// contradicts an enabled filter is a violation as well.
func stampTenant(sc *scope.Scope, row TenantScoped) error {
	scopeTenant := sc.TenantID()

	if current := row.GetTenantID(); current != nil {
		if sc.FilterEnabled() && (scopeTenant == nil || *scopeTenant != *current) {
			return ErrTenantIsolationViolation
		}
		return nil
	}

	if scopeTenant != nil {
		row.SetTenantID(*scopeTenant)
		return nil
	}

	if exempt, ok := row.(scopeExempt); ok && exempt.ScopeExempt() {
		return nil
	}

	return ErrTenantIsolationViolation
}
