package views

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/router"
)

type GuardState int

const (
	Resolving GuardState = iota
	Authorized
	Redirecting
)

func (s GuardState) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Redirecting:
		return "redirecting"
	default:
		return "resolving"
	}
}

// Guard gates protected routes on the presence of a session. It keeps no
// result between checks.
type Guard struct {
	d     Deps
	state GuardState
}

func NewGuard(d Deps) *Guard {
	return &Guard{d: d.withDefaults()}
}

// Check resolves the session for the current location. Without one it
// replaces the location with the login view, remembering where the visitor
// was heading.
func (g *Guard) Check(ctx context.Context) GuardState {
	g.state = Resolving
	if _, ok := g.d.Gateway.CurrentSession(ctx); ok {
		g.state = Authorized
		return g.state
	}

	from := g.d.Nav.Current()
	from.From = nil
	g.d.Nav.Redirect(router.PathLogin, from)
	g.state = Redirecting
	return g.state
}

func (g *Guard) State() GuardState { return g.state }

// Render shows a loading line while resolving and nothing otherwise; the
// guarded page renders itself once authorized.
func (g *Guard) Render() string {
	if g.state == Resolving {
		return mutedStyle.Render("Loading...")
	}
	return ""
}
