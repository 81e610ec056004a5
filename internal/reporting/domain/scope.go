package domain

import (
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
)

// Scope is the business-unit visibility boundary resolved per request.
// Exactly one of Unrestricted/Empty/BusinessUnitID-scoped applies.
type Scope struct {
	Unrestricted   bool
	Empty          bool
	BusinessUnitID int64
}

// ResolveScope decides the effective business-unit filter for a caller.
// A request-supplied business unit is only honored for the unrestricted
// role; anyone else is pinned to their home unit, with any mismatch
// silently overridden rather than rejected. A caller with no home unit
// and no privilege sees nothing (fail closed).
func ResolveScope(caller identity.Caller, requestedBU *int64) Scope {
	if caller.IsSuperAdmin() {
		if requestedBU != nil {
			return Scope{BusinessUnitID: *requestedBU}
		}
		return Scope{Unrestricted: true}
	}

	if caller.BusinessUnitID == nil {
		return Scope{Empty: true}
	}

	return Scope{BusinessUnitID: *caller.BusinessUnitID}
}

// Allows reports whether a concrete business unit id (nil = unclassified)
// is visible under this scope. Unclassified rows are visible to any
// non-empty scope: hiding legacy data that predates tenant backfill is
// worse than slight over-inclusion.
func (s Scope) Allows(businessUnitID *int64) bool {
	if s.Empty {
		return false
	}
	if s.Unrestricted {
		return true
	}
	if businessUnitID == nil {
		return true
	}
	return *businessUnitID == s.BusinessUnitID
}
