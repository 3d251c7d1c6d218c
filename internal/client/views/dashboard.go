package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	"github.com/dmitrijs2005/passionpath/internal/client/router"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// HobbyForm is the dashboard's create form. CoverPath names a local image.
type HobbyForm struct {
	Title       string
	Description string
	Category    string
	CoverPath   string
}

// Dashboard lists the signed-in user's hobbies and creates new ones.
// Search and Category narrow the loaded list locally.
type Dashboard struct {
	d        Deps
	Form     HobbyForm
	Search   string
	Category string
	hobbies  []models.Hobby
}

func NewDashboard(d Deps) *Dashboard { return &Dashboard{d: d.withDefaults()} }

func (v *Dashboard) Mount(ctx context.Context) { v.load(ctx) }

// load replaces the list with the user's hobbies, newest first. A failed
// read empties it.
func (v *Dashboard) load(ctx context.Context) {
	id := v.d.Session.Current().Identity
	if id == nil {
		return
	}
	records, err := v.d.Gateway.Query(ctx, rs.Query{
		Collection: rs.Hobbies,
		Columns:    models.HobbyColumns,
		Filters:    []rs.Filter{rs.Eq(rs.ColumnUserID, id.ID)},
		Order:      &rs.Order{Column: rs.ColumnCreatedAt, Ascending: false},
	})
	if err != nil {
		v.d.Logger.Warn(ctx, "load hobbies", "error", err)
		records = nil
	}
	v.hobbies = models.FromRecords(records, models.HobbyFromRecord)
}

// Hobbies is the loaded list.
func (v *Dashboard) Hobbies() []models.Hobby { return v.hobbies }

// Visible is the loaded list narrowed by Search and Category.
func (v *Dashboard) Visible() []models.Hobby {
	return models.FilterHobbies(v.hobbies, v.Search, v.Category)
}

func (v *Dashboard) Categories() []string { return models.Categories(v.hobbies) }

// CreateHobby uploads the cover, if any, then inserts the hobby. A failed
// cover upload is reported but the hobby is still created without a cover.
func (v *Dashboard) CreateHobby(ctx context.Context) error {
	if err := required("title", v.Form.Title); err != nil {
		return err
	}
	id := v.d.Session.Current().Identity
	if id == nil {
		return nil
	}

	var cover any
	if v.Form.CoverPath != "" {
		path := id.ID + "/" + v.d.NewID() + "-" + filepath.Base(v.Form.CoverPath)
		url, err := v.d.upload(ctx, rs.BucketHobbyCovers, path, v.Form.CoverPath)
		if err != nil {
			v.d.fail("Cover upload failed", err)
		} else {
			cover = optional(url)
		}
	}

	err := v.d.Gateway.Insert(ctx, rs.Hobbies, rs.Record{
		"title":       v.Form.Title,
		"description": optional(v.Form.Description),
		"category":    optional(v.Form.Category),
		"cover_url":   cover,
	})
	if err != nil {
		v.d.fail("Create hobby failed", err)
		return nil
	}

	v.d.succeed("Hobby created", "")
	v.Form = HobbyForm{}
	v.load(ctx)
	return nil
}

// Open shows the board of the n-th visible hobby, counting from 1.
func (v *Dashboard) Open(n int) error {
	visible := v.Visible()
	if n < 1 || n > len(visible) {
		return fmt.Errorf("no hobby #%d", n)
	}
	v.d.Nav.Navigate(router.HobbyPath(visible[n-1].ID))
	return nil
}

func (v *Dashboard) Render() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Your hobbies") + "\n")

	filter := "All categories"
	if v.Category != "" {
		filter = v.Category
	}
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("search: %q  category: %s  available: %s",
		v.Search, filter, strings.Join(v.Categories(), ", "))))

	visible := v.Visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("No hobbies yet. Create your first one above!"))
		return b.String()
	}
	for i, h := range visible {
		lines := []string{fmt.Sprintf("#%d %s", i+1, h.Title)}
		if h.Description != nil {
			lines = append(lines, *h.Description)
		}
		if h.Category != nil {
			lines = append(lines, mutedStyle.Render("Category: "+*h.Category))
		}
		if h.CoverURL != nil {
			lines = append(lines, mutedStyle.Render("Cover: "+*h.CoverURL))
		}
		b.WriteString(card(lines...) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
