package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/passionpath/internal/client/router"
	"github.com/dmitrijs2005/passionpath/internal/client/views"
	"github.com/dmitrijs2005/passionpath/internal/common"
)

var errWrongPage = errors.New("not available on this page")

var shortcuts = map[string]string{
	"home":      router.PathIndex,
	"login":     router.PathLogin,
	"signup":    router.PathSignup,
	"dashboard": router.PathDashboard,
	"profile":   router.PathProfile,
}

// currentPage returns the mounted page as T, or errWrongPage.
func currentPage[T views.Page](a *App) (T, error) {
	p, ok := a.shell.Page().(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w (%s)", errWrongPage, a.nav.Current().Path)
	}
	return p, nil
}

// Show syncs the shell with the current location and prints it.
func (a *App) Show(ctx context.Context) {
	a.shell.Sync(ctx)
	fmt.Fprintln(a.out, a.shell.Render())
}

func (a *App) Go(ctx context.Context, where string) error {
	path, ok := shortcuts[where]
	if !ok {
		if !strings.HasPrefix(where, "/") {
			return fmt.Errorf("unknown destination %q", where)
		}
		path = where
	}
	a.nav.Navigate(path)
	return nil
}

func (a *App) Back(context.Context) error {
	if !a.nav.Back() {
		return errors.New("already at the first page")
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	a.shell.Reload(ctx)
	return nil
}

// Login opens the login page if needed, then prompts for credentials.
func (a *App) Login(ctx context.Context) error {
	if a.nav.Current().Path != router.PathLogin {
		a.nav.Navigate(router.PathLogin)
	}
	a.shell.Sync(ctx)
	v, err := currentPage[*views.Login](a)
	if err != nil {
		return err
	}
	pw, err := a.credentials(&v.Email)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	v.Password = string(pw)
	defer func() { v.Password = "" }()
	return v.Submit(ctx)
}

func (a *App) Signup(ctx context.Context) error {
	if a.nav.Current().Path != router.PathSignup {
		a.nav.Navigate(router.PathSignup)
	}
	a.shell.Sync(ctx)
	v, err := currentPage[*views.Signup](a)
	if err != nil {
		return err
	}
	pw, err := a.credentials(&v.Email)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	v.Password = string(pw)
	defer func() { v.Password = "" }()
	return v.Submit(ctx)
}

func (a *App) credentials(email *string) ([]byte, error) {
	e, err := GetSimpleText(a.reader, "Enter email:", a.out)
	if err != nil {
		return nil, err
	}
	*email = e
	return GetPassword(a.reader, a.out)
}

func (a *App) Logout(ctx context.Context) error {
	a.shell.Bar().SignOut(ctx)
	return nil
}

func (a *App) AddHobby(ctx context.Context) error {
	v, err := currentPage[*views.Dashboard](a)
	if err != nil {
		return err
	}
	if v.Form.Title, err = GetSimpleText(a.reader, "Title:", a.out); err != nil {
		return err
	}
	if v.Form.Description, err = GetSimpleText(a.reader, "Description (optional):", a.out); err != nil {
		return err
	}
	if v.Form.Category, err = GetSimpleText(a.reader, "Category (optional):", a.out); err != nil {
		return err
	}
	if v.Form.CoverPath, err = GetSimpleText(a.reader, "Cover image file (optional):", a.out); err != nil {
		return err
	}
	return v.CreateHobby(ctx)
}

// Search narrows the dashboard by title; an empty text clears it.
func (a *App) Search(_ context.Context, text string) error {
	v, err := currentPage[*views.Dashboard](a)
	if err != nil {
		return err
	}
	v.Search = text
	return nil
}

// Filter narrows the dashboard by category; an empty category shows all.
func (a *App) Filter(_ context.Context, category string) error {
	v, err := currentPage[*views.Dashboard](a)
	if err != nil {
		return err
	}
	v.Category = category
	return nil
}

func (a *App) Open(_ context.Context, n string) error {
	v, err := currentPage[*views.Dashboard](a)
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(n)
	if err != nil {
		return fmt.Errorf("not a number: %q", n)
	}
	return v.Open(i)
}

func (a *App) AddGoal(ctx context.Context) error {
	v, err := currentPage[*views.HobbyBoard](a)
	if err != nil {
		return err
	}
	if v.Goal.Title, err = GetSimpleText(a.reader, "Goal title:", a.out); err != nil {
		return err
	}
	if v.Goal.Description, err = GetSimpleText(a.reader, "Description (optional):", a.out); err != nil {
		return err
	}
	if v.Goal.TargetDate, err = GetSimpleText(a.reader, "Target date YYYY-MM-DD (optional):", a.out); err != nil {
		return err
	}
	if v.Goal.Progress, err = GetNumber(a.reader, "Progress 0-100 (default 0):", 0, a.out); err != nil {
		return err
	}
	return v.AddGoal(ctx)
}

func (a *App) SetProgress(ctx context.Context, n, progress string) error {
	v, err := currentPage[*views.HobbyBoard](a)
	if err != nil {
		return err
	}
	id, err := a.goalID(v, n)
	if err != nil {
		return err
	}
	p, err := strconv.Atoi(progress)
	if err != nil {
		return fmt.Errorf("not a number: %q", progress)
	}
	v.UpdateGoalProgress(ctx, id, p)
	return nil
}

func (a *App) DeleteGoal(ctx context.Context, n string) error {
	v, err := currentPage[*views.HobbyBoard](a)
	if err != nil {
		return err
	}
	id, err := a.goalID(v, n)
	if err != nil {
		return err
	}
	v.DeleteGoal(ctx, id)
	return nil
}

func (a *App) goalID(v *views.HobbyBoard, n string) (string, error) {
	i, err := strconv.Atoi(n)
	if err != nil {
		return "", fmt.Errorf("not a number: %q", n)
	}
	return v.GoalID(i)
}

func (a *App) AddNote(ctx context.Context) error {
	v, err := currentPage[*views.HobbyBoard](a)
	if err != nil {
		return err
	}
	if v.Note.Content, err = GetMultiline(a.reader, "Note:", a.out); err != nil {
		return err
	}
	return v.AddNote(ctx)
}

func (a *App) AddResource(ctx context.Context) error {
	v, err := currentPage[*views.HobbyBoard](a)
	if err != nil {
		return err
	}
	if v.Resource.Title, err = GetSimpleText(a.reader, "Title (optional):", a.out); err != nil {
		return err
	}
	if v.Resource.URL, err = GetSimpleText(a.reader, "Link URL (optional):", a.out); err != nil {
		return err
	}
	if v.Resource.FilePath, err = GetSimpleText(a.reader, "File to upload (optional):", a.out); err != nil {
		return err
	}
	return v.AddResource(ctx)
}

func (a *App) SetName(ctx context.Context) error {
	v, err := currentPage[*views.Profile](a)
	if err != nil {
		return err
	}
	if v.DisplayName, err = GetSimpleText(a.reader, "Display name:", a.out); err != nil {
		return err
	}
	v.Save(ctx)
	return nil
}
