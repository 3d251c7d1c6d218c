package recordstore

// Collection names.
const (
	Hobbies   = "hobbies"
	Goals     = "goals"
	Notes     = "notes"
	Resources = "resources"
	Profiles  = "profiles"
)

// Storage bucket names.
const (
	BucketHobbyCovers = "hobby-covers"
	BucketResources   = "resources"
)

// Common columns.
const (
	ColumnID        = "id"
	ColumnUserID    = "user_id"
	ColumnHobbyID   = "hobby_id"
	ColumnCreatedAt = "created_at"
)

// Collection describes one table the service exposes.
//
// Exactly one of OwnerColumn and ParentColumn is set: owned collections are
// scoped by the caller's user id directly, child collections through the
// owning hobby. ConflictColumn is the uniqueness key used by upsert.
type Collection struct {
	Name           string
	Columns        []string
	OwnerColumn    string
	ParentColumn   string
	ConflictColumn string
}

// HasColumn reports whether column belongs to the collection.
func (c Collection) HasColumn(column string) bool {
	for _, col := range c.Columns {
		if col == column {
			return true
		}
	}
	return false
}

// ServerSet reports whether the service owns the column's value; clients may
// send it but it is ignored on writes.
func (c Collection) ServerSet(column string) bool {
	return column == ColumnID || column == ColumnCreatedAt || (c.OwnerColumn != "" && column == c.OwnerColumn)
}

var collections = map[string]Collection{
	Hobbies: {
		Name:        Hobbies,
		Columns:     []string{ColumnID, ColumnUserID, "title", "description", "category", "cover_url", ColumnCreatedAt},
		OwnerColumn: ColumnUserID,
	},
	Goals: {
		Name:         Goals,
		Columns:      []string{ColumnID, ColumnHobbyID, "title", "description", "target_date", "progress", ColumnCreatedAt},
		ParentColumn: ColumnHobbyID,
	},
	Notes: {
		Name:         Notes,
		Columns:      []string{ColumnID, ColumnHobbyID, "content", ColumnCreatedAt},
		ParentColumn: ColumnHobbyID,
	},
	Resources: {
		Name:         Resources,
		Columns:      []string{ColumnID, ColumnHobbyID, "type", "title", "url", "file_url", ColumnCreatedAt},
		ParentColumn: ColumnHobbyID,
	},
	Profiles: {
		Name:           Profiles,
		Columns:        []string{ColumnUserID, "display_name", ColumnCreatedAt},
		OwnerColumn:    ColumnUserID,
		ConflictColumn: ColumnUserID,
	},
}

// LookupCollection returns the schema of a collection by name.
func LookupCollection(name string) (Collection, bool) {
	c, ok := collections[name]
	return c, ok
}

// KnownBucket reports whether the service stores blobs in bucket.
func KnownBucket(bucket string) bool {
	return bucket == BucketHobbyCovers || bucket == BucketResources
}
