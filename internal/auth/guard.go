package auth

// RouteMeta describes the access requirements of a route.
type RouteMeta struct {
	RequiresAuth  bool `json:"requires_auth"`
	RequiresGuest bool `json:"requires_guest"`

	// RequiresRole, when set, requires the user to hold this role or a
	// higher one. Only meaningful together with RequiresAuth.
	RequiresRole Role `json:"requires_role,omitempty"`
}

// Guard decision targets.
const (
	TargetLogin     = "login"
	TargetHome      = "home"
	TargetForbidden = "forbidden"
)

// Decision is the outcome of evaluating a route guard.
type Decision struct {
	Allowed bool `json:"allowed"`

	// RedirectTo names the destination when access is denied.
	RedirectTo string `json:"redirect_to,omitempty"`

	// RequiredRole carries the missing role on a forbidden redirect so the
	// destination can explain what was needed.
	RequiredRole Role `json:"required_role,omitempty"`
}

// EvaluateGuard decides whether navigation to a route is permitted.
//
// Checks run in order and the first failure wins: an unauthenticated user
// on an auth-required route goes to login, an authenticated user on a
// guest-only route goes home, and an authenticated user lacking the
// required role goes to forbidden with the missing role attached.
func EvaluateGuard(meta RouteMeta, state State) Decision {
	if meta.RequiresAuth && !state.IsAuthenticated {
		return Decision{RedirectTo: TargetLogin}
	}

	if meta.RequiresGuest && state.IsAuthenticated {
		return Decision{RedirectTo: TargetHome}
	}

	if meta.RequiresRole != "" && !HasRoleOrHigher(state.CurrentUser, meta.RequiresRole) {
		return Decision{
			RedirectTo:   TargetForbidden,
			RequiredRole: meta.RequiresRole,
		}
	}

	return Decision{Allowed: true}
}
