package views

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

type GoalForm struct {
	Title       string
	Description string
	TargetDate  string
	Progress    int
}

type NoteForm struct {
	Content string
}

// ResourceForm adds a link, a file, or both. FilePath names a local file.
type ResourceForm struct {
	Title    string
	URL      string
	FilePath string
}

// HobbyBoard shows one hobby's goals, notes and resources.
type HobbyBoard struct {
	d        Deps
	HobbyID  string
	Goal     GoalForm
	Note     NoteForm
	Resource ResourceForm

	goals     []models.Goal
	notes     []models.Note
	resources []models.Resource
}

func NewHobbyBoard(d Deps, hobbyID string) *HobbyBoard {
	return &HobbyBoard{d: d.withDefaults(), HobbyID: hobbyID}
}

func (v *HobbyBoard) Mount(ctx context.Context) {
	v.loadGoals(ctx)
	v.loadNotes(ctx)
	v.loadResources(ctx)
}

func (v *HobbyBoard) Goals() []models.Goal         { return v.goals }
func (v *HobbyBoard) Notes() []models.Note         { return v.notes }
func (v *HobbyBoard) Resources() []models.Resource { return v.resources }

// query loads one child collection of the hobby, newest first. A failed
// load yields no records so the board never shows a stale list.
func (v *HobbyBoard) query(ctx context.Context, collection string, columns []string) []rs.Record {
	if v.HobbyID == "" {
		return nil
	}
	records, err := v.d.Gateway.Query(ctx, rs.Query{
		Collection: collection,
		Columns:    columns,
		Filters:    []rs.Filter{rs.Eq(rs.ColumnHobbyID, v.HobbyID)},
		Order:      &rs.Order{Column: rs.ColumnCreatedAt, Ascending: false},
	})
	if err != nil {
		v.d.Logger.Warn(ctx, "load "+collection, "hobby_id", v.HobbyID, "error", err)
		return nil
	}
	return records
}

func (v *HobbyBoard) loadGoals(ctx context.Context) {
	v.goals = models.FromRecords(v.query(ctx, rs.Goals, models.GoalColumns), models.GoalFromRecord)
}

func (v *HobbyBoard) loadNotes(ctx context.Context) {
	v.notes = models.FromRecords(v.query(ctx, rs.Notes, models.NoteColumns), models.NoteFromRecord)
}

func (v *HobbyBoard) loadResources(ctx context.Context) {
	v.resources = models.FromRecords(v.query(ctx, rs.Resources, models.ResourceColumns), models.ResourceFromRecord)
}

func (v *HobbyBoard) AddGoal(ctx context.Context) error {
	if err := required("title", v.Goal.Title); err != nil {
		return err
	}
	if v.HobbyID == "" {
		return nil
	}

	err := v.d.Gateway.Insert(ctx, rs.Goals, rs.Record{
		rs.ColumnHobbyID: v.HobbyID,
		"title":          v.Goal.Title,
		"description":    optional(v.Goal.Description),
		"target_date":    optional(v.Goal.TargetDate),
		"progress":       models.ClampProgress(v.Goal.Progress),
	})
	if err != nil {
		v.d.fail("Add goal failed", err)
		return nil
	}

	v.Goal = GoalForm{}
	v.loadGoals(ctx)
	return nil
}

// UpdateGoalProgress stores the clamped progress and patches the local list
// without reloading.
func (v *HobbyBoard) UpdateGoalProgress(ctx context.Context, goalID string, progress int) {
	progress = models.ClampProgress(progress)
	if err := v.d.Gateway.Update(ctx, rs.Goals, rs.Record{"progress": progress}, rs.Eq(rs.ColumnID, goalID)); err != nil {
		v.d.fail("Update failed", err)
		return
	}
	goals := slices.Clone(v.goals)
	for i := range goals {
		if goals[i].ID == goalID {
			goals[i].Progress = progress
		}
	}
	v.goals = goals
}

// DeleteGoal removes the goal remotely and from the local list.
func (v *HobbyBoard) DeleteGoal(ctx context.Context, goalID string) {
	if err := v.d.Gateway.Delete(ctx, rs.Goals, rs.Eq(rs.ColumnID, goalID)); err != nil {
		v.d.fail("Delete failed", err)
		return
	}
	kept := make([]models.Goal, 0, len(v.goals))
	for _, g := range v.goals {
		if g.ID != goalID {
			kept = append(kept, g)
		}
	}
	v.goals = kept
}

func (v *HobbyBoard) AddNote(ctx context.Context) error {
	if err := required("content", v.Note.Content); err != nil {
		return err
	}
	if v.HobbyID == "" {
		return nil
	}

	err := v.d.Gateway.Insert(ctx, rs.Notes, rs.Record{
		rs.ColumnHobbyID: v.HobbyID,
		"content":        v.Note.Content,
	})
	if err != nil {
		v.d.fail("Add note failed", err)
		return nil
	}

	v.Note = NoteForm{}
	v.loadNotes(ctx)
	return nil
}

// AddResource uploads the attached file first; if that fails the resource
// is not created.
func (v *HobbyBoard) AddResource(ctx context.Context) error {
	if v.HobbyID == "" {
		return nil
	}

	var fileURL any
	attached := v.Resource.FilePath != ""
	if attached {
		path := v.d.NewID() + "-" + filepath.Base(v.Resource.FilePath)
		url, err := v.d.upload(ctx, rs.BucketResources, path, v.Resource.FilePath)
		if err != nil {
			v.d.fail("Upload failed", err)
			return nil
		}
		fileURL = optional(url)
	}

	err := v.d.Gateway.Insert(ctx, rs.Resources, rs.Record{
		rs.ColumnHobbyID: v.HobbyID,
		"title":          optional(v.Resource.Title),
		"url":            optional(v.Resource.URL),
		"file_url":       fileURL,
		"type":           models.ResourceType(attached),
	})
	if err != nil {
		v.d.fail("Add resource failed", err)
		return nil
	}

	v.Resource = ResourceForm{}
	v.loadResources(ctx)
	return nil
}

// GoalID returns the id of the n-th goal, counting from 1.
func (v *HobbyBoard) GoalID(n int) (string, error) {
	if n < 1 || n > len(v.goals) {
		return "", fmt.Errorf("no goal #%d", n)
	}
	return v.goals[n-1].ID, nil
}

func (v *HobbyBoard) Render() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Hobby Board") + "\n")

	b.WriteString(headingStyle.Render("Goals") + "\n")
	if len(v.goals) == 0 {
		b.WriteString(mutedStyle.Render("No goals yet.") + "\n")
	}
	for i, g := range v.goals {
		lines := []string{fmt.Sprintf("#%d %s  %s %d%%", i+1, g.Title, progressBar(g.Progress), g.Progress)}
		if g.Description != nil {
			lines = append(lines, *g.Description)
		}
		if g.TargetDate != nil {
			lines = append(lines, mutedStyle.Render("Target: "+*g.TargetDate))
		}
		b.WriteString(card(lines...) + "\n")
	}

	b.WriteString(headingStyle.Render("Notes") + "\n")
	if len(v.notes) == 0 {
		b.WriteString(mutedStyle.Render("No notes yet.") + "\n")
	}
	for _, n := range v.notes {
		b.WriteString(card(n.Content, mutedStyle.Render(n.CreatedAt)) + "\n")
	}

	b.WriteString(headingStyle.Render("Resources") + "\n")
	if len(v.resources) == 0 {
		b.WriteString(mutedStyle.Render("No resources yet.") + "\n")
	}
	for _, r := range v.resources {
		title := deref(r.Title)
		if title == "" {
			title = r.Type
		}
		lines := []string{title}
		if r.URL != nil {
			lines = append(lines, "Open link: "+*r.URL)
		}
		if r.FileURL != nil {
			lines = append(lines, "Download file: "+*r.FileURL)
		}
		b.WriteString(card(lines...) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressBar(p int) string {
	filled := models.ClampProgress(p) / 10
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}
