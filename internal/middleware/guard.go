package middleware

import (
	"github.com/aokimoto/orderdesk-backend/internal/app/model"
)

// GuardDecision is the outcome of one access-guard evaluation
type GuardDecision int

const (
	// GuardPending: role resolution is still in flight; no redirect
	// decision may be made yet. "Undetermined" is not "unauthorized".
	GuardPending GuardDecision = iota
	// GuardRedirectEntry: send the caller back to the entry view
	GuardRedirectEntry
	// GuardRender: the protected view may be shown
	GuardRender
)

// EvaluateGuard decides render vs redirect for a protected view. It is a
// pure function of exactly these four inputs and holds no state:
//
//	loading             → Pending (never redirect during the resolution window)
//	no identity         → RedirectEntry
//	role ≠ requiredRole → RedirectEntry (unauthorized included)
//	otherwise           → Render
func EvaluateGuard(identity string, role model.UserRole, loading bool, requiredRole model.UserRole) GuardDecision {
	if loading {
		return GuardPending
	}
	if identity == "" {
		return GuardRedirectEntry
	}
	if role != requiredRole {
		return GuardRedirectEntry
	}
	return GuardRender
}
