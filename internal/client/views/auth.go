package views

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/router"
)

// Login signs a visitor in and returns them to the location the guard
// recorded, or to the dashboard.
type Login struct {
	d        Deps
	Email    string
	Password string
	loading  bool
}

func NewLogin(d Deps) *Login { return &Login{d: d.withDefaults()} }

func (v *Login) Mount(context.Context) {}

func (v *Login) Submit(ctx context.Context) error {
	if err := required("email", v.Email, "password", v.Password); err != nil {
		return err
	}

	v.loading = true
	err := v.d.Gateway.SignIn(ctx, v.Email, v.Password)
	v.loading = false
	if err != nil {
		v.d.fail("Login failed", err)
		return nil
	}

	dest := router.PathDashboard
	if from := v.d.Nav.Current().From; from != nil && from.Path != "" {
		dest = from.Path
	}
	v.d.Nav.Replace(dest)
	return nil
}

func (v *Login) Loading() bool { return v.loading }

func (v *Login) Render() string {
	return card(
		headingStyle.Render("Welcome back"),
		mutedStyle.Render("Sign in to continue your passion path."),
		"",
		"Email:    "+v.Email,
		"Password: "+mask(v.Password),
		"",
		mutedStyle.Render("No account? [signup]"),
	)
}

// Signup creates an account; the new account is signed in right away.
type Signup struct {
	d        Deps
	Email    string
	Password string
	loading  bool
}

func NewSignup(d Deps) *Signup { return &Signup{d: d.withDefaults()} }

func (v *Signup) Mount(context.Context) {}

func (v *Signup) Submit(ctx context.Context) error {
	if err := required("email", v.Email, "password", v.Password); err != nil {
		return err
	}

	v.loading = true
	err := v.d.Gateway.SignUp(ctx, v.Email, v.Password)
	v.loading = false
	if err != nil {
		v.d.fail("Signup failed", err)
		return nil
	}

	v.d.succeed("Account created", "Welcome!")
	v.d.Nav.Navigate(router.PathDashboard)
	return nil
}

func (v *Signup) Loading() bool { return v.loading }

func (v *Signup) Render() string {
	return card(
		headingStyle.Render("Create account"),
		mutedStyle.Render("Start your passion path today."),
		"",
		"Email:    "+v.Email,
		"Password: "+mask(v.Password),
		"",
		mutedStyle.Render("Already have an account? [login]"),
	)
}

func mask(s string) string {
	out := make([]byte, len(s))
	for i := range out {
		out[i] = '*'
	}
	return string(out)
}
