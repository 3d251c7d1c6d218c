package views

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/router"
)

// Shell composes the identity bar with the page for the current location.
// Protected pages are mounted only after the guard authorizes them.
type Shell struct {
	d     Deps
	bar   *IdentityBar
	guard *Guard

	loc   router.Location
	match router.Match
	page  Page
}

func NewShell(d Deps) *Shell {
	d = d.withDefaults()
	return &Shell{d: d, bar: NewIdentityBar(d), guard: NewGuard(d)}
}

func (s *Shell) Bar() *IdentityBar { return s.bar }
func (s *Shell) Guard() *Guard     { return s.guard }
func (s *Shell) Page() Page        { return s.page }
func (s *Shell) Match() router.Match {
	return s.match
}

// Mount starts the identity bar and mounts the page for the current location.
func (s *Shell) Mount(ctx context.Context) {
	s.bar.Mount(ctx)
	s.Sync(ctx)
}

func (s *Shell) Unmount() {
	s.bar.Unmount()
	s.page = nil
}

// Sync mounts the page for the current location if the location changed
// since the last mount. A guard redirect is followed to the login page.
func (s *Shell) Sync(ctx context.Context) {
	loc := s.d.Nav.Current()
	if s.page != nil && sameLocation(loc, s.loc) {
		return
	}
	s.mount(ctx, loc)
}

// Reload remounts the current page, reissuing its loads.
func (s *Shell) Reload(ctx context.Context) {
	s.mount(ctx, s.d.Nav.Current())
}

func (s *Shell) mount(ctx context.Context, loc router.Location) {
	m := router.Resolve(loc.Path)
	if m.Route.Protected && s.guard.Check(ctx) != Authorized {
		s.page = nil
		loc = s.d.Nav.Current()
		m = router.Resolve(loc.Path)
	}

	s.loc = loc
	s.match = m
	s.page = s.newPage(m)
	s.page.Mount(ctx)
}

func (s *Shell) newPage(m router.Match) Page {
	switch m.Route.Name {
	case router.RouteIndex:
		return NewIndex(s.d)
	case router.RouteLogin:
		return NewLogin(s.d)
	case router.RouteSignup:
		return NewSignup(s.d)
	case router.RouteDashboard:
		return NewDashboard(s.d)
	case router.RouteProfile:
		return NewProfile(s.d)
	case router.RouteHobby:
		return NewHobbyBoard(s.d, m.Params["id"])
	default:
		return &NotFound{Path: m.Route.Pattern}
	}
}

func (s *Shell) Render() string {
	out := s.bar.Render() + "\n"
	if s.page == nil {
		return out + s.guard.Render()
	}
	return out + s.page.Render()
}

func sameLocation(a, b router.Location) bool {
	if a.Path != b.Path {
		return false
	}
	if a.From == nil || b.From == nil {
		return a.From == b.From
	}
	return a.From.Path == b.From.Path
}
