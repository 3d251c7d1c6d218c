package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	"github.com/dmitrijs2005/passionpath/internal/client/router"
	"github.com/dmitrijs2005/passionpath/internal/client/session"
)

// IdentityBar is the persistent header: the signed-in email with a sign-out
// action, or sign-in and sign-up actions.
type IdentityBar struct {
	d Deps

	mu          sync.Mutex
	identity    *models.Identity
	unsubscribe func()
}

func NewIdentityBar(d Deps) *IdentityBar {
	return &IdentityBar{d: d.withDefaults()}
}

// Mount takes the held identity and follows later session changes.
func (b *IdentityBar) Mount(ctx context.Context) {
	b.Unmount()
	b.set(b.d.Session.Current())
	unsubscribe := b.d.Session.Subscribe(b.set)

	b.mu.Lock()
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

func (b *IdentityBar) Unmount() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (b *IdentityBar) set(st session.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identity = st.Identity
}

func (b *IdentityBar) Identity() (models.Identity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		return models.Identity{}, false
	}
	return *b.identity, true
}

// SignOut is best effort: the visitor lands on the login view whether or
// not the service acknowledged the sign-out.
func (b *IdentityBar) SignOut(ctx context.Context) {
	if err := b.d.Gateway.SignOut(ctx); err != nil {
		b.d.Logger.Warn(ctx, "sign out failed", "error", err)
	}
	b.d.Nav.Navigate(router.PathLogin)
}

func (b *IdentityBar) Render() string {
	brand := headingStyle.Render("My Passion Path")
	if id, ok := b.Identity(); ok {
		return barStyle.Render(brand + "  " + id.Email + "  [logout]")
	}
	return barStyle.Render(brand + "  [login] [signup]")
}
