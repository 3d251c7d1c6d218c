package models

import rs "github.com/dmitrijs2005/passionpath/internal/recordstore"

// Projections loaded by the hobby board.
var (
	GoalColumns     = []string{"id", "title", "description", "target_date", "progress"}
	NoteColumns     = []string{"id", "content", "created_at"}
	ResourceColumns = []string{"id", "type", "url", "file_url", "title"}
	ProfileColumns  = []string{"display_name"}
)

// Resource types.
const (
	ResourceLink = "link"
	ResourceFile = "file"
)

type Goal struct {
	ID          string
	Title       string
	Description *string
	TargetDate  *string
	Progress    int
}

func GoalFromRecord(r rs.Record) Goal {
	return Goal{
		ID:          r.String("id"),
		Title:       r.String("title"),
		Description: r.OptString("description"),
		TargetDate:  r.OptString("target_date"),
		Progress:    r.Int("progress"),
	}
}

// ClampProgress limits p to the 0..100 range.
func ClampProgress(p int) int {
	return min(max(p, 0), 100)
}

// Note is append-only; the client never edits one.
type Note struct {
	ID        string
	Content   string
	CreatedAt string
}

func NoteFromRecord(r rs.Record) Note {
	return Note{ID: r.String("id"), Content: r.String("content"), CreatedAt: r.String("created_at")}
}

type Resource struct {
	ID      string
	Type    string
	Title   *string
	URL     *string
	FileURL *string
}

func ResourceFromRecord(r rs.Record) Resource {
	return Resource{
		ID:      r.String("id"),
		Type:    r.String("type"),
		Title:   r.OptString("title"),
		URL:     r.OptString("url"),
		FileURL: r.OptString("file_url"),
	}
}

// ResourceType is "file" when an upload was attached and "link" otherwise.
func ResourceType(fileAttached bool) string {
	if fileAttached {
		return ResourceFile
	}
	return ResourceLink
}

// Profile is the per-identity singleton.
type Profile struct {
	DisplayName string
}

func ProfileFromRecord(r rs.Record) Profile {
	return Profile{DisplayName: r.String("display_name")}
}

// FromRecords maps every record with fn.
func FromRecords[T any](records []rs.Record, fn func(rs.Record) T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		out = append(out, fn(r))
	}
	return out
}
