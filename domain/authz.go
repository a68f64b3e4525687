package domain

/***************************************************
*       Authorization evaluator (hot path)         *
***************************************************/

// DenyReason tells a caller why a decision came back negative, so business
// modules can produce actionable messages without re-implementing the logic.
type DenyReason string

const (
	DenyNone                  DenyReason = ""
	DenyRoleInactive          DenyReason = "role_inactive"
	DenyUnknownResource       DenyReason = "unknown_resource"
	DenyResourceNotGranted    DenyReason = "resource_not_granted"
	DenyActionNotGranted      DenyReason = "action_not_granted"
	DenySpecialFlagDenied     DenyReason = "special_flag_denied"
	DenyUnknownSpecialFlag    DenyReason = "unknown_special_flag"
	DenyDiscountBoundExceeded DenyReason = "discount_bound_exceeded"
)

// Decision is the normal return value of every authorization check. A deny is
// expected control flow, never an error.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
}

var allowed = Decision{Allowed: true}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// CallerBug reports whether the deny was caused by a malformed request
// (out-of-catalog resource or flag) rather than by missing grants. Callers
// log these instead of showing them to users.
func (d Decision) CallerBug() bool {
	return d.Reason == DenyUnknownResource || d.Reason == DenyUnknownSpecialFlag
}

// Err maps a deny to the matching API error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return ErrPermissionDenied.WithReason(string(d.Reason))
}

// AuthorizeAction decides whether the role may perform action on resource.
// The evaluation is pure map lookups over already-loaded data: no I/O, safe
// for concurrent use, O(1). There is no bypass for any role; administrator
// authority comes entirely from its grant being complete, so a corrupted or
// partially copied record degrades instead of silently retaining power.
func (r *Role) AuthorizeAction(resource Resource, action Action) Decision {
	if !r.Active {
		return deny(DenyRoleInactive)
	}
	if !resource.Valid() {
		return deny(DenyUnknownResource)
	}
	actions, ok := r.Grant[resource]
	if !ok {
		return deny(DenyResourceNotGranted)
	}
	if !actions.Has(action) {
		return deny(DenyActionNotGranted)
	}
	return allowed
}

// AuthorizeSpecial decides a named boolean capability. Unknown flag names are
// a caller bug and fail closed with DenyUnknownSpecialFlag.
func (r *Role) AuthorizeSpecial(flag SpecialFlag) Decision {
	if !r.Active {
		return deny(DenyRoleInactive)
	}
	value, known := r.Special.Flag(flag)
	if !known {
		return deny(DenyUnknownSpecialFlag)
	}
	if !value {
		return deny(DenySpecialFlagDenied)
	}
	return allowed
}

// AuthorizeDiscount decides a proposed discount percentage against the
// role's cap. A request above the cap is denied outright; callers must not
// clamp and proceed.
func (r *Role) AuthorizeDiscount(percent float64) Decision {
	if !r.Active {
		return deny(DenyRoleInactive)
	}
	if !r.Special.ApplyDiscounts {
		return deny(DenySpecialFlagDenied)
	}
	if percent > r.Special.MaxDiscountPercent {
		return deny(DenyDiscountBoundExceeded)
	}
	return allowed
}
