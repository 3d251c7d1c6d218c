// Package router resolves client paths to views and tracks navigation
// history, including the "from" location a redirect carries.
package router

import (
	"strings"
	"sync"
)

// Paths.
const (
	PathIndex     = "/"
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathDashboard = "/dashboard"
	PathProfile   = "/profile"
	PathHobby     = "/hobby/:id"
)

// Route names.
const (
	RouteIndex     = "index"
	RouteLogin     = "login"
	RouteSignup    = "signup"
	RouteDashboard = "dashboard"
	RouteProfile   = "profile"
	RouteHobby     = "hobby"
	RouteNotFound  = "not_found"
)

// Route binds a path pattern to a view. Protected routes pass through the
// session guard.
type Route struct {
	Name      string
	Pattern   string
	Protected bool
}

// Routes is the route table in match order.
var Routes = []Route{
	{Name: RouteIndex, Pattern: PathIndex},
	{Name: RouteLogin, Pattern: PathLogin},
	{Name: RouteSignup, Pattern: PathSignup},
	{Name: RouteDashboard, Pattern: PathDashboard, Protected: true},
	{Name: RouteProfile, Pattern: PathProfile, Protected: true},
	{Name: RouteHobby, Pattern: PathHobby, Protected: true},
}

// Match is a resolved route with its path parameters.
type Match struct {
	Route  Route
	Params map[string]string
}

// Resolve matches path against Routes. Unknown paths resolve to the
// not-found route.
func Resolve(path string) Match {
	for _, r := range Routes {
		if params, ok := match(r.Pattern, path); ok {
			return Match{Route: r, Params: params}
		}
	}
	return Match{Route: Route{Name: RouteNotFound, Pattern: path}, Params: map[string]string{}}
}

func match(pattern, path string) (map[string]string, bool) {
	ps := split(pattern)
	xs := split(path)
	if len(ps) != len(xs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range ps {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if xs[i] == "" {
				return nil, false
			}
			params[name] = xs[i]
			continue
		}
		if p != xs[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// HobbyPath builds the board path of a hobby.
func HobbyPath(id string) string {
	return "/hobby/" + id
}

// Location is a navigation entry. From is set when a redirect should
// remember where the visitor was heading.
type Location struct {
	Path string
	From *Location
}

// Navigator is the in-process history stack.
type Navigator struct {
	mu        sync.Mutex
	history   []Location
	listeners map[int]func(Location)
	nextID    int
}

func NewNavigator(start string) *Navigator {
	return &Navigator{
		history:   []Location{{Path: start}},
		listeners: map[int]func(Location){},
	}
}

func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[len(n.history)-1]
}

// Navigate pushes path.
func (n *Navigator) Navigate(path string) {
	n.move(Location{Path: path}, false)
}

// Replace swaps the current entry for path.
func (n *Navigator) Replace(path string) {
	n.move(Location{Path: path}, true)
}

// Redirect replaces the current entry with path, remembering from.
func (n *Navigator) Redirect(path string, from Location) {
	n.move(Location{Path: path, From: &from}, true)
}

// Back pops one entry; it reports false at the start of history.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	if len(n.history) < 2 {
		n.mu.Unlock()
		return false
	}
	n.history = n.history[:len(n.history)-1]
	loc := n.history[len(n.history)-1]
	fns := n.snapshot()
	n.mu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
	return true
}

// History returns the entries, oldest first.
func (n *Navigator) History() []Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Location(nil), n.history...)
}

// OnChange registers fn for every location change.
func (n *Navigator) OnChange(fn func(Location)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *Navigator) move(loc Location, replace bool) {
	n.mu.Lock()
	if replace {
		n.history[len(n.history)-1] = loc
	} else {
		n.history = append(n.history, loc)
	}
	fns := n.snapshot()
	n.mu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
}

// snapshot copies the listeners in registration order. Callers hold n.mu.
func (n *Navigator) snapshot() []func(Location) {
	fns := make([]func(Location), 0, len(n.listeners))
	for id := 1; id <= n.nextID; id++ {
		if fn, ok := n.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
