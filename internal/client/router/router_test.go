package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path      string
		name      string
		protected bool
		params    map[string]string
	}{
		{path: "/", name: RouteIndex, params: map[string]string{}},
		{path: "/login", name: RouteLogin, params: map[string]string{}},
		{path: "/signup/", name: RouteSignup, params: map[string]string{}},
		{path: "/dashboard", name: RouteDashboard, protected: true, params: map[string]string{}},
		{path: "/profile", name: RouteProfile, protected: true, params: map[string]string{}},
		{path: "/hobby/h1", name: RouteHobby, protected: true, params: map[string]string{"id": "h1"}},
		{path: "/hobby", name: RouteNotFound, params: map[string]string{}},
		{path: "/hobby/h1/extra", name: RouteNotFound, params: map[string]string{}},
		{path: "/nope", name: RouteNotFound, params: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m := Resolve(tt.path)
			assert.Equal(t, tt.name, m.Route.Name)
			assert.Equal(t, tt.protected, m.Route.Protected)
			assert.Equal(t, tt.params, m.Params)
		})
	}
}

func TestHobbyPath(t *testing.T) {
	assert.Equal(t, "/hobby/abc", HobbyPath("abc"))
	assert.Equal(t, "abc", Resolve(HobbyPath("abc")).Params["id"])
}

func TestNavigator_History(t *testing.T) {
	n := NewNavigator(PathIndex)

	var seen []string
	unsubscribe := n.OnChange(func(l Location) { seen = append(seen, l.Path) })

	n.Navigate(PathDashboard)
	n.Redirect(PathLogin, Location{Path: PathDashboard})

	cur := n.Current()
	assert.Equal(t, PathLogin, cur.Path)
	require.NotNil(t, cur.From)
	assert.Equal(t, PathDashboard, cur.From.Path)
	assert.Len(t, n.History(), 2, "redirect replaces the guarded entry")

	n.Replace(PathDashboard)
	assert.Nil(t, n.Current().From)

	require.True(t, n.Back())
	assert.Equal(t, PathIndex, n.Current().Path)
	assert.False(t, n.Back())

	unsubscribe()
	n.Navigate(PathProfile)
	assert.Equal(t, []string{PathDashboard, PathLogin, PathDashboard, PathIndex}, seen)
}
