package views

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/router"
)

// Index is the landing page.
type Index struct {
	d Deps
}

func NewIndex(d Deps) *Index { return &Index{d: d.withDefaults()} }

func (v *Index) Mount(context.Context) {}

// GetStarted opens the sign-up form.
func (v *Index) GetStarted() { v.d.Nav.Navigate(router.PathSignup) }

// HaveAccount opens the login form.
func (v *Index) HaveAccount() { v.d.Nav.Navigate(router.PathLogin) }

func (v *Index) Render() string {
	return card(
		headingStyle.Render("Grow your passions"),
		"Track hobbies, set goals, add notes, and collect resources in one friendly place.",
		"",
		"[signup] Get started    [login] I already have an account",
	)
}

// NotFound is shown for unknown paths.
type NotFound struct {
	Path string
}

func (v *NotFound) Mount(context.Context) {}

func (v *NotFound) Render() string {
	return card(headingStyle.Render("404"), "Oops! Page not found: "+v.Path, mutedStyle.Render("[home] Return to Home"))
}
