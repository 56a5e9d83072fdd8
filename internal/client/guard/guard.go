// Package guard decides whether a view may be shown for the current
// authentication state.
package guard

import (
	"github.com/dmitrijs2005/padho/internal/client/models"
)

// PathHome is the public landing address.
const PathHome = "/"

// Outcome is what the caller should do with a guarded view.
type Outcome int

const (
	// Pending means the state is not settled yet: show a neutral
	// placeholder, neither the view nor a redirect.
	Pending Outcome = iota
	// Render means the view may be shown.
	Render
	// Redirect means navigate to Decision.Target instead.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of Check.
type Decision struct {
	Outcome Outcome
	Target  string
}

// RoleRequirement is the set of roles allowed to see a view.
// An empty requirement admits any signed-in user.
type RoleRequirement map[models.Role]struct{}

// Require builds a RoleRequirement from roles.
func Require(roles ...models.Role) RoleRequirement {
	req := make(RoleRequirement, len(roles))
	for _, r := range roles {
		req[r] = struct{}{}
	}
	return req
}

// Allows reports whether role satisfies the requirement.
func (req RoleRequirement) Allows(role models.Role) bool {
	if len(req) == 0 {
		return true
	}
	_, ok := req[role]
	return ok
}

// Check is a pure function of the state and the requirement.
// A signed-in user with the wrong role is sent home exactly like an
// anonymous one; there is no separate forbidden outcome.
func Check(state models.AuthState, req RoleRequirement) Decision {
	switch state.Status {
	case models.StatusAuthenticated:
		if state.User != nil && req.Allows(state.User.Role) {
			return Decision{Outcome: Render}
		}
		return Decision{Outcome: Redirect, Target: PathHome}
	case models.StatusAnonymous:
		return Decision{Outcome: Redirect, Target: PathHome}
	default:
		return Decision{Outcome: Pending}
	}
}
