package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

func authed(role models.Role) models.AuthState {
	return models.Authenticated(models.User{ID: "u1", Role: role})
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		state models.AuthState
		req   RoleRequirement
		want  Decision
	}{
		{"uninitialized is pending", models.Uninitialized(), Require(models.RoleAdmin), Decision{Outcome: Pending}},
		{"loading is pending", models.Loading(), nil, Decision{Outcome: Pending}},
		{"anonymous redirects", models.Anonymous(), nil, Decision{Outcome: Redirect, Target: PathHome}},
		{"no requirement renders", authed(models.RoleStudent), nil, Decision{Outcome: Render}},
		{"matching role renders", authed(models.RoleAdmin), Require(models.RoleAdmin), Decision{Outcome: Render}},
		{"student on admin view redirects", authed(models.RoleStudent), Require(models.RoleAdmin),
			Decision{Outcome: Redirect, Target: PathHome}},
		{"admin on instructor view renders", authed(models.RoleAdmin),
			Require(models.RoleInstructor, models.RoleAdmin), Decision{Outcome: Render}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.state, tt.req))
		})
	}
}

func TestCheck_StudentNeverRendersAdminView(t *testing.T) {
	for i := 0; i < 10; i++ {
		d := Check(authed(models.RoleStudent), Require(models.RoleAdmin))
		require.Equal(t, Redirect, d.Outcome)
	}
}

func TestCheck_LoadingNeverRedirectsOrRenders(t *testing.T) {
	for _, req := range []RoleRequirement{nil, Require(models.RoleStudent), Require(models.RoleAdmin)} {
		d := Check(models.Loading(), req)
		require.Equal(t, Pending, d.Outcome)
		require.Empty(t, d.Target)
	}
}

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter(DefaultRoutes()...)

	rt, d, err := r.Resolve("/courses?category=math", models.Anonymous())
	require.NoError(t, err)
	assert.Equal(t, "Courses", rt.Title)
	assert.Equal(t, Render, d.Outcome)

	_, d, err = r.Resolve("/dashboard/admin/", authed(models.RoleStudent))
	require.NoError(t, err)
	assert.Equal(t, Decision{Outcome: Redirect, Target: PathHome}, d)

	_, d, err = r.Resolve("dashboard/instructor", authed(models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, Render, d.Outcome)

	_, d, err = r.Resolve("/dashboard/student", models.Loading())
	require.NoError(t, err)
	assert.Equal(t, Pending, d.Outcome)

	_, _, err = r.Resolve("/nowhere", models.Anonymous())
	require.ErrorIs(t, err, ErrRouteNotFound)

	rt, _, err = r.Resolve("", models.Anonymous())
	require.NoError(t, err)
	assert.Equal(t, PathHome, rt.Path)
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, PathStudentDashboard, LandingPath(models.RoleStudent))
	assert.Equal(t, PathInstructorDashboard, LandingPath(models.RoleInstructor))
	assert.Equal(t, PathAdminDashboard, LandingPath(models.RoleAdmin))
	assert.Equal(t, PathStudentDashboard, LandingPath(""))
}

func TestRouter_PathsSorted(t *testing.T) {
	r := NewRouter(DefaultRoutes()...)
	paths := r.Paths()
	require.Contains(t, paths, PathAdminDashboard)
	for i := 1; i < len(paths); i++ {
		require.Less(t, paths[i-1], paths[i])
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "render", Render.String())
	assert.Equal(t, "redirect", Redirect.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
