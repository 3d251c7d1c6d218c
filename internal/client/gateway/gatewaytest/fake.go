// Package gatewaytest provides an in-memory, scriptable gateway.Gateway for
// view and session tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/passionpath/internal/client/gateway"
	"github.com/dmitrijs2005/passionpath/internal/client/models"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// Call is one recorded gateway invocation.
type Call struct {
	Op         string
	Collection string
	Query      rs.Query
	Record     rs.Record
	Filters    []rs.Filter
	Bucket     string
	Path       string
}

// Fake keeps collections in memory, applies equality filters and ordering
// the way the record store does, and fails any operation scripted with Fail.
// Owner columns of hobbies and profiles are set from the session.
type Fake struct {
	mu        sync.Mutex
	session   *models.Session
	tables    map[string][]rs.Record
	errs      map[string]error
	uploads   map[string][]byte
	calls     []Call
	listeners map[int]func(gateway.Event)
	nextID    int
	seq       int

	// PublicBase is returned by PublicURL as "<base>/<bucket>/<path>";
	// empty means unresolvable.
	PublicBase string
}

var _ gateway.Gateway = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		tables:    map[string][]rs.Record{},
		errs:      map[string]error{},
		uploads:   map[string][]byte{},
		listeners: map[int]func(gateway.Event){},
	}
}

// Key builds the Fail key for an operation: "sign_in", "sign_up",
// "sign_out", "identity", or "<op>:<collection or bucket>" for query, insert,
// update, upsert, delete and upload.
func Key(op, target string) string {
	if target == "" {
		return op
	}
	return op + ":" + target
}

// Fail scripts err for every later call matching key. A nil err clears it.
func (f *Fake) Fail(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, key)
		return
	}
	f.errs[key] = err
}

// SignInAs establishes a session without a call being recorded.
func (f *Fake) SignInAs(id models.Identity) {
	f.setSession(&models.Session{AccessToken: "token-" + id.ID, User: id}, gateway.SignedIn)
}

// Seed stores records as they would come back from the service. Missing ids
// and timestamps are generated; owner columns are kept as given.
func (f *Fake) Seed(collection string, records ...rs.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		f.tables[collection] = append(f.tables[collection], f.fill(collection, clone(r), false))
	}
}

// Rows returns a copy of a collection's stored records.
func (f *Fake) Rows(collection string) []rs.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]rs.Record, 0, len(f.tables[collection]))
	for _, r := range f.tables[collection] {
		out = append(out, clone(r))
	}
	return out
}

// Calls returns the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count reports how many recorded calls had op (and collection, when given).
func (f *Fake) Count(op, collection string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op && (collection == "" || c.Collection == collection) {
			n++
		}
	}
	return n
}

// Upload returns the bytes stored at bucket/path.
func (f *Fake) Upload(bucket, path string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.uploads[bucket+"/"+path]
	return b, ok
}

func (f *Fake) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	target := c.Collection
	if c.Bucket != "" {
		target = c.Bucket
	}
	return f.errs[Key(c.Op, target)]
}

func (f *Fake) setSession(s *models.Session, kind gateway.EventKind) {
	f.mu.Lock()
	f.session = s
	ids := make([]int, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(gateway.Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, f.listeners[id])
	}
	f.mu.Unlock()

	var ev gateway.Event
	ev.Kind = kind
	if s != nil {
		cp := *s
		ev.Session = &cp
	}
	for _, fn := range fns {
		fn(ev)
	}
}

func (f *Fake) CurrentIdentity(context.Context) (models.Identity, bool) {
	if err := f.record(Call{Op: "identity"}); err != nil {
		return models.Identity{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return models.Identity{}, false
	}
	return f.session.User, true
}

func (f *Fake) CurrentSession(context.Context) (models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return models.Session{}, false
	}
	return *f.session, true
}

func (f *Fake) OnSessionChange(fn func(gateway.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Listeners reports how many session listeners are registered.
func (f *Fake) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *Fake) SignIn(_ context.Context, email, _ string) error {
	return f.authenticate("sign_in", email)
}

func (f *Fake) SignUp(_ context.Context, email, _ string) error {
	return f.authenticate("sign_up", email)
}

func (f *Fake) authenticate(op, email string) error {
	if err := f.record(Call{Op: op}); err != nil {
		return &gateway.AuthError{Op: op, Err: err}
	}
	f.SignInAs(models.Identity{ID: "user-" + email, Email: email})
	return nil
}

func (f *Fake) SignOut(context.Context) error {
	err := f.record(Call{Op: "sign_out"})
	if _, ok := f.CurrentSession(context.Background()); ok {
		f.setSession(nil, gateway.SignedOut)
	}
	if err != nil {
		return &gateway.AuthError{Op: "sign out", Err: err}
	}
	return nil
}

func (f *Fake) Query(_ context.Context, q rs.Query) ([]rs.Record, error) {
	if err := f.record(Call{Op: "query", Collection: q.Collection, Query: q, Filters: q.Filters}); err != nil {
		return nil, &gateway.QueryError{Collection: q.Collection, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]rs.Record, 0)
	for _, r := range f.tables[q.Collection] {
		if matches(r, q.Filters) {
			out = append(out, clone(r))
		}
	}
	if q.Order != nil {
		col, asc := q.Order.Column, q.Order.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fmt.Sprint(out[i][col]), fmt.Sprint(out[j][col])
			if asc {
				return a < b
			}
			return a > b
		})
	}
	if q.Single && len(out) > 1 {
		out = out[:1]
	}
	return out, nil
}

func (f *Fake) Insert(_ context.Context, collection string, record rs.Record) error {
	if err := f.record(Call{Op: "insert", Collection: collection, Record: clone(record)}); err != nil {
		return &gateway.WriteError{Op: "insert", Collection: collection, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[collection] = append(f.tables[collection], f.complete(collection, clone(record)))
	return nil
}

func (f *Fake) Update(_ context.Context, collection string, patch rs.Record, filters ...rs.Filter) error {
	if err := f.record(Call{Op: "update", Collection: collection, Record: clone(patch), Filters: filters}); err != nil {
		return &gateway.WriteError{Op: "update", Collection: collection, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.tables[collection] {
		if matches(r, filters) {
			for k, v := range patch {
				r[k] = v
			}
		}
	}
	return nil
}

// Upsert replaces the caller's row for owner-keyed collections.
func (f *Fake) Upsert(_ context.Context, collection string, record rs.Record) error {
	if err := f.record(Call{Op: "upsert", Collection: collection, Record: clone(record)}); err != nil {
		return &gateway.WriteError{Op: "upsert", Collection: collection, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row := f.complete(collection, clone(record))
	key := rs.ColumnID
	if c, ok := rs.LookupCollection(collection); ok && c.ConflictColumn != "" {
		key = c.ConflictColumn
	}
	for i, r := range f.tables[collection] {
		if r[key] == row[key] {
			f.tables[collection][i] = row
			return nil
		}
	}
	f.tables[collection] = append(f.tables[collection], row)
	return nil
}

func (f *Fake) Delete(_ context.Context, collection string, filters ...rs.Filter) error {
	if err := f.record(Call{Op: "delete", Collection: collection, Filters: filters}); err != nil {
		return &gateway.WriteError{Op: "delete", Collection: collection, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tables[collection][:0]
	for _, r := range f.tables[collection] {
		if !matches(r, filters) {
			kept = append(kept, r)
		}
	}
	f.tables[collection] = kept
	return nil
}

func (f *Fake) UploadBlob(_ context.Context, bucket, path string, data []byte, _ string) (string, error) {
	if err := f.record(Call{Op: "upload", Bucket: bucket, Path: path}); err != nil {
		return "", &gateway.StorageError{Bucket: bucket, Path: path, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[bucket+"/"+path] = append([]byte(nil), data...)
	return path, nil
}

func (f *Fake) PublicURL(bucket, storedPath string) string {
	if f.PublicBase == "" || storedPath == "" {
		return ""
	}
	return f.PublicBase + "/" + bucket + "/" + storedPath
}

// complete fills the columns the service would set. Callers hold f.mu.
func (f *Fake) complete(collection string, r rs.Record) rs.Record {
	return f.fill(collection, r, true)
}

func (f *Fake) fill(collection string, r rs.Record, owned bool) rs.Record {
	f.seq++
	if _, ok := r[rs.ColumnID]; !ok && collection != rs.Profiles {
		r[rs.ColumnID] = fmt.Sprintf("%s-%d", collection, f.seq)
	}
	if _, ok := r[rs.ColumnCreatedAt]; !ok {
		r[rs.ColumnCreatedAt] = fmt.Sprintf("2025-01-01T00:00:00.%09dZ", f.seq)
	}
	if c, ok := rs.LookupCollection(collection); ok && owned && c.OwnerColumn != "" && f.session != nil {
		r[c.OwnerColumn] = f.session.User.ID
	}
	return r
}

func matches(r rs.Record, filters []rs.Filter) bool {
	for _, flt := range filters {
		if fmt.Sprint(r[flt.Column]) != fmt.Sprint(flt.Value) {
			return false
		}
	}
	return true
}

func clone(r rs.Record) rs.Record {
	out := make(rs.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
