package guard

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

var ErrRouteNotFound = errors.New("route not found")

const (
	PathAuthCallback        = "/auth/callback"
	PathStudentDashboard    = "/dashboard/student"
	PathInstructorDashboard = "/dashboard/instructor"
	PathAdminDashboard      = "/dashboard/admin"
)

// Route is one addressable view.
type Route struct {
	Path  string
	Title string

	// Protected routes go through Check; public ones always render.
	Protected bool
	Roles     RoleRequirement
}

// Router maps addresses to routes.
type Router struct {
	routes map[string]Route
}

// NewRouter returns a router holding routes.
func NewRouter(routes ...Route) *Router {
	r := &Router{routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		r.routes[rt.Path] = rt
	}
	return r
}

// DefaultRoutes is the route table of the learning platform.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathHome, Title: "Home"},
		{Path: "/courses", Title: "Courses"},
		{Path: "/study-materials", Title: "Study Materials"},
		{Path: "/video-lectures", Title: "Video Lectures"},
		{Path: "/quizzes", Title: "Quizzes"},
		{Path: "/blog", Title: "Blog"},
		{Path: "/about", Title: "About"},
		{Path: "/contact", Title: "Contact"},
		{Path: "/pricing", Title: "Pricing"},
		{Path: "/privacy", Title: "Privacy Policy"},
		{Path: "/terms", Title: "Terms of Service"},
		{Path: PathAuthCallback, Title: "Completing authentication"},
		{Path: PathStudentDashboard, Title: "Student Dashboard", Protected: true,
			Roles: Require(models.RoleStudent)},
		{Path: PathInstructorDashboard, Title: "Instructor Dashboard", Protected: true,
			Roles: Require(models.RoleInstructor, models.RoleAdmin)},
		{Path: PathAdminDashboard, Title: "Admin Dashboard", Protected: true,
			Roles: Require(models.RoleAdmin)},
	}
}

// Resolve finds the route for address and decides what to do with it.
// Query and fragment are ignored for the lookup.
func (r *Router) Resolve(address string, state models.AuthState) (Route, Decision, error) {
	path := normalize(address)
	rt, ok := r.routes[path]
	if !ok {
		return Route{}, Decision{}, ErrRouteNotFound
	}
	if !rt.Protected {
		return rt, Decision{Outcome: Render}, nil
	}
	return rt, Check(state, rt.Roles), nil
}

// Paths lists the known addresses in lexical order.
func (r *Router) Paths() []string {
	out := make([]string, 0, len(r.routes))
	for p := range r.routes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LandingPath is the default view for a signed-in role.
func LandingPath(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return PathAdminDashboard
	case models.RoleInstructor:
		return PathInstructorDashboard
	default:
		return PathStudentDashboard
	}
}

func normalize(address string) string {
	address = strings.TrimSpace(address)
	if u, err := url.Parse(address); err == nil {
		address = u.Path
	}
	if address == "" {
		return PathHome
	}
	if !strings.HasPrefix(address, "/") {
		address = "/" + address
	}
	if len(address) > 1 {
		address = strings.TrimRight(address, "/")
	}
	return address
}
