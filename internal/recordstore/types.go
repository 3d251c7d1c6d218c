package recordstore

// Record is one row of a collection keyed by column name. Values are
// JSON-like: nil, bool, float64/int, string, or nested maps and slices.
type Record map[string]any

// String returns the column value as a string, or "" when absent or not a string.
func (r Record) String(column string) string {
	s, _ := r[column].(string)
	return s
}

// OptString returns nil for absent, null or empty values.
func (r Record) OptString(column string) *string {
	s, ok := r[column].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Int returns the column value as an int. Wire numbers arrive as float64.
func (r Record) Int(column string) int {
	switch v := r[column].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// Filter is an equality predicate: Column = Value.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts a query by a single column.
type Order struct {
	Column    string
	Ascending bool
}

// Query selects Columns from Collection where every filter holds.
// A Single query returns at most one record.
type Query struct {
	Collection string
	Columns    []string
	Filters    []Filter
	Order      *Order
	Single     bool
}

// Mutation describes insert, update, upsert and delete requests. Record is
// the new row for insert/upsert and the patch for update; Filters select the
// rows for update and delete.
type Mutation struct {
	Collection string
	Record     Record
	Filters    []Filter
}

// Credentials carries an email/password pair for sign-in and sign-up.
type Credentials struct {
	Email    string
	Password string
}

// Identity is the authenticated user as reported by the service.
type Identity struct {
	ID    string
	Email string
}

// Tokens is the session issued by sign-in, sign-up and refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	User         Identity
}

// Upload asks for a presigned URL to store a blob at Path inside Bucket.
type Upload struct {
	Bucket string
	Path   string
}

// UploadTicket is the service's answer to Upload.
type UploadTicket struct {
	// Bucket is the physical bucket the object lands in; empty when it
	// matches the requested one.
	Bucket     string
	StoredPath string
	UploadURL  string
}
