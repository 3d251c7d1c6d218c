package models

import (
	"slices"
	"strings"

	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// HobbyColumns is the projection the dashboard loads.
var HobbyColumns = []string{"id", "user_id", "title", "description", "category", "cover_url"}

// Hobby is a user-owned record grouping goals, notes and resources.
type Hobby struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Category    *string
	CoverURL    *string
}

func HobbyFromRecord(r rs.Record) Hobby {
	return Hobby{
		ID:          r.String("id"),
		UserID:      r.String("user_id"),
		Title:       r.String("title"),
		Description: r.OptString("description"),
		Category:    r.OptString("category"),
		CoverURL:    r.OptString("cover_url"),
	}
}

// FilterHobbies returns the hobbies whose title contains search and whose
// category equals category, both case-insensitively. Empty arguments match
// everything. The input slice is not modified.
func FilterHobbies(hobbies []Hobby, search, category string) []Hobby {
	search = strings.ToLower(search)
	out := make([]Hobby, 0, len(hobbies))
	for _, h := range hobbies {
		if !strings.Contains(strings.ToLower(h.Title), search) {
			continue
		}
		if category != "" && !strings.EqualFold(deref(h.Category), category) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Categories lists the distinct non-empty categories in first-seen order.
func Categories(hobbies []Hobby) []string {
	var out []string
	for _, h := range hobbies {
		c := deref(h.Category)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
