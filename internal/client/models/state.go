package models

// AuthStatus is the lifecycle phase of the client's authentication state.
type AuthStatus string

const (
	StatusUninitialized AuthStatus = "uninitialized"
	StatusLoading       AuthStatus = "loading"
	StatusAuthenticated AuthStatus = "authenticated"
	StatusAnonymous     AuthStatus = "anonymous"
)

// Terminal reports whether s is a stable outcome of a completed transition.
func (s AuthStatus) Terminal() bool {
	return s == StatusAuthenticated || s == StatusAnonymous
}

// AuthState is the only mutable entity owned by the auth core.
//
// Invariant: Status == StatusAuthenticated if and only if User != nil.
// Values are built with the constructors below, never field by field.
type AuthState struct {
	Status AuthStatus
	User   *User
}

// Uninitialized is the state entered once at process start.
func Uninitialized() AuthState {
	return AuthState{Status: StatusUninitialized}
}

// Loading marks a transition in flight.
func Loading() AuthState {
	return AuthState{Status: StatusLoading}
}

// Anonymous is the terminal state with no identity.
func Anonymous() AuthState {
	return AuthState{Status: StatusAnonymous}
}

// Authenticated is the terminal state holding a copy of u.
func Authenticated(u User) AuthState {
	return AuthState{Status: StatusAuthenticated, User: &u}
}

// Clone returns a deep copy so readers never share the cached user.
func (s AuthState) Clone() AuthState {
	if s.User == nil {
		return AuthState{Status: s.Status}
	}
	u := *s.User
	return AuthState{Status: s.Status, User: &u}
}

// Role returns the user's role, or "" when nobody is signed in.
func (s AuthState) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
