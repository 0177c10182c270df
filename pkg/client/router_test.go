package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(session *Session) *Router {
	return NewRouter(session, RouterConfig{
		Login:       Route{Name: "login", Path: "/login"},
		StaffHome:   Route{Name: "dashboard", Path: "/dashboard", AllowedKinds: []Kind{KindStaff}},
		StudentHome: Route{Name: "portal", Path: "/portal", AllowedKinds: []Kind{KindStudent}},
		Routes: []Route{
			{Name: "students", Path: "/students", AllowedKinds: []Kind{KindStaff}},
			{Name: "staff-users", Path: "/staff-users", AllowedKinds: []Kind{KindStaff}, AllowedRoles: []string{"administrador"}},
			{Name: "my-workouts", Path: "/portal/workouts", AllowedKinds: []Kind{KindStudent}},
			{Name: "about", Path: "/about"},
		},
	})
}

func TestUnauthenticatedNavigationGoesToLogin(t *testing.T) {
	router := newTestRouter(NewSession(NewMemoryStore(), nil, nil))

	assert.Equal(t, "login", router.Resolve("students").Name)
	assert.Equal(t, "login", router.Resolve("my-workouts").Name)
	assert.Equal(t, "login", router.Home().Name)
}

func TestPublicRouteAlwaysResolves(t *testing.T) {
	session := NewSession(NewMemoryStore(), nil, nil)
	router := newTestRouter(session)

	assert.Equal(t, "about", router.Resolve("about").Name)

	require.NoError(t, session.Begin(studentSnapshot()))
	assert.Equal(t, "about", router.Resolve("about").Name)
}

func TestStaffNavigation(t *testing.T) {
	session := NewSession(NewMemoryStore(), nil, nil)
	require.NoError(t, session.Begin(staffSnapshot()))
	router := newTestRouter(session)

	assert.Equal(t, "students", router.Resolve("students").Name)
	assert.Equal(t, "staff-users", router.Resolve("staff-users").Name)
	// Staff landing, not the student portal.
	assert.Equal(t, "dashboard", router.Resolve("my-workouts").Name)
	assert.Equal(t, "dashboard", router.Home().Name)
}

func TestAttendantRedirectedFromAdminRoute(t *testing.T) {
	session := NewSession(NewMemoryStore(), nil, nil)
	snap := staffSnapshot()
	snap.Staff.Role = "atendente"
	require.NoError(t, session.Begin(snap))
	router := newTestRouter(session)

	assert.Equal(t, "students", router.Resolve("students").Name)
	assert.Equal(t, "dashboard", router.Resolve("staff-users").Name)
}

func TestStudentNavigation(t *testing.T) {
	session := NewSession(NewMemoryStore(), nil, nil)
	require.NoError(t, session.Begin(studentSnapshot()))
	router := newTestRouter(session)

	assert.Equal(t, "my-workouts", router.Resolve("my-workouts").Name)
	assert.Equal(t, "portal", router.Resolve("students").Name)
	assert.Equal(t, "portal", router.Home().Name)
}

func TestUnknownRouteResolvesLikeUnauthorized(t *testing.T) {
	session := NewSession(NewMemoryStore(), nil, nil)
	router := newTestRouter(session)

	assert.Equal(t, "login", router.Resolve("nope").Name)

	require.NoError(t, session.Begin(studentSnapshot()))
	assert.Equal(t, "portal", router.Resolve("nope").Name)
}

// The guard re-reads the session on every call: a teardown between two
// navigations takes effect immediately.
func TestNavigationReevaluatedAfterTeardown(t *testing.T) {
	session := NewSession(NewMemoryStore(), nil, nil)
	require.NoError(t, session.Begin(staffSnapshot()))
	router := newTestRouter(session)

	assert.Equal(t, "students", router.Resolve("students").Name)

	session.Expire("INVALID_OR_EXPIRED_TOKEN")
	assert.Equal(t, "login", router.Resolve("students").Name)
}
