// Package authz is the authorization gate: pure, total decision functions
// with no persistent state. Callers translate a deny into a response and
// must never perform the guarded mutation when one is returned.
package authz

import (
	"exportdesk/internal/apperrors"
	"exportdesk/internal/auth"
	"exportdesk/internal/models"
)

type Decision struct {
	Allowed bool
	Reason  apperrors.Code
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason apperrors.Code) Decision { return Decision{Reason: reason} }

// Err converts a deny into its taxonomy error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case apperrors.CodeInsufficientRole:
		return apperrors.ErrInsufficientRole
	case apperrors.CodeTenantMismatch:
		return apperrors.ErrTenantMismatch
	case apperrors.CodeAccountInactive:
		return apperrors.ErrAccountInactive
	default:
		return apperrors.New(d.Reason, "access denied")
	}
}

// ManageSystem covers user/client/gateway/terminal/invitation management
// and viewing the audit log.
func ManageSystem(a auth.Actor) Decision {
	if !a.Admin {
		return Deny(apperrors.CodeInsufficientRole)
	}
	return Allow()
}

// TouchRecord decides whether the actor may read or mutate a tenant-scoped
// record owned by recordClientID: administrators and unscoped staff always
// may, client-bound actors only within their own tenant.
func TouchRecord(a auth.Actor, recordClientID uint) Decision {
	if !a.Scoped() {
		return Allow()
	}
	if *a.ClientID != recordClientID {
		return Deny(apperrors.CodeTenantMismatch)
	}
	return Allow()
}

// BindClient decides whether the actor may create or rebind a record under
// clientID. Same rule as TouchRecord; kept separate because it guards the
// requested binding rather than an existing row.
func BindClient(a auth.Actor, clientID uint) Decision {
	return TouchRecord(a, clientID)
}

// InitiateReset refuses password-reset initiation for inactive users
// regardless of the actor's role.
func InitiateReset(target models.User) Decision {
	if !target.IsActive {
		return Deny(apperrors.CodeAccountInactive)
	}
	return Allow()
}
