package gateway

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/dbx"
	"github.com/dmitrijs2005/passionpath/internal/logging"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"github.com/dmitrijs2005/passionpath/internal/server/auth"
	"github.com/dmitrijs2005/passionpath/internal/server/config"
	servergrpc "github.com/dmitrijs2005/passionpath/internal/server/grpc"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passionpath/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "integration-secret"

// blobSink presigns uploads to an in-process HTTP server that stores bodies.
// Physical buckets carry a prefix, as with a shared object store.
type blobSink struct {
	srv   *httptest.Server
	blobs map[string][]byte
}

func newBlobSink(t *testing.T) *blobSink {
	b := &blobSink{blobs: map[string][]byte{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.blobs[r.URL.Path] = data
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *blobSink) PresignPut(_ context.Context, up rs.Upload) (*rs.UploadTicket, error) {
	bucket := "pp-" + up.Bucket
	return &rs.UploadTicket{Bucket: bucket, StoredPath: up.Path, UploadURL: b.srv.URL + "/" + bucket + "/" + up.Path}, nil
}

// startStore runs the record-store service on an in-memory listener backed by
// a migrated SQLite file and returns a fresh gateway dialed to it.
func startStore(t *testing.T) (func() *GRPCGateway, *blobSink) {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := dbx.Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	m := repomanager.NewSQLRepositoryManager(dialect)
	require.NoError(t, m.RunMigrations(ctx, db))

	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	sink := newBlobSink(t)
	srv := servergrpc.NewGRPCServer("", logging.Discard(), services.NewAuthService(db, m, cfg), services.NewRecordService(db, m), sink, testSecret)

	lis := bufconn.Listen(1 << 20)
	gs := srv.NewServer()
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	dial := func() *GRPCGateway {
		g, err := NewGRPCGateway("passthrough:///bufnet", "http://cdn.local", logging.Discard(),
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
		require.NoError(t, err)
		t.Cleanup(func() { _ = g.Close() })
		return g
	}
	return dial, sink
}

func mustSignUp(t *testing.T, g *GRPCGateway, email string) {
	t.Helper()
	require.NoError(t, g.SignUp(context.Background(), email, "secret1"))
}

func TestIntegration_AuthLifecycle(t *testing.T) {
	ctx := context.Background()
	dial, _ := startStore(t)
	g := dial()

	require.NoError(t, g.Ping(ctx))

	_, ok := g.CurrentIdentity(ctx)
	assert.False(t, ok)

	mustSignUp(t, g, "Ann@Example.com")
	id, ok := g.CurrentIdentity(ctx)
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", id.Email)

	require.NoError(t, g.SignOut(ctx))
	_, ok = g.CurrentSession(ctx)
	assert.False(t, ok)

	err := g.SignIn(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = g.SignUp(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrRejected)

	require.NoError(t, g.SignIn(ctx, "ann@example.com", "secret1"))
	_, ok = g.CurrentSession(ctx)
	assert.True(t, ok)
}

func TestIntegration_ScopedRecords(t *testing.T) {
	ctx := context.Background()
	dial, _ := startStore(t)
	ann, bob := dial(), dial()
	mustSignUp(t, ann, "ann@example.com")
	mustSignUp(t, bob, "bob@example.com")

	annSession, _ := ann.CurrentSession(ctx)
	require.NoError(t, ann.Insert(ctx, rs.Hobbies, rs.Record{"title": "Guitar", "user_id": "spoofed"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, ann.Insert(ctx, rs.Hobbies, rs.Record{"title": "Chess"}))
	require.NoError(t, bob.Insert(ctx, rs.Hobbies, rs.Record{"title": "Running"}))

	list := func(g *GRPCGateway, userID string) []rs.Record {
		records, err := g.Query(ctx, rs.Query{
			Collection: rs.Hobbies,
			Columns:    []string{"id", "user_id", "title"},
			Filters:    []rs.Filter{rs.Eq("user_id", userID)},
			Order:      &rs.Order{Column: "created_at", Ascending: false},
		})
		require.NoError(t, err)
		return records
	}

	hobbies := list(ann, annSession.User.ID)
	require.Len(t, hobbies, 2)
	assert.Equal(t, "Chess", hobbies[0].String("title"))
	assert.Equal(t, "Guitar", hobbies[1].String("title"))
	assert.Equal(t, annSession.User.ID, hobbies[1].String("user_id"))

	// Bob cannot see Ann's hobbies even when asking for them.
	assert.Empty(t, list(bob, annSession.User.ID))

	hobbyID := hobbies[0].String("id")
	err := bob.Insert(ctx, rs.Goals, rs.Record{"hobby_id": hobbyID, "title": "Steal"})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, ann.Insert(ctx, rs.Goals, rs.Record{"hobby_id": hobbyID, "title": "Openings", "progress": 0}))
	goals, err := ann.Query(ctx, rs.Query{Collection: rs.Goals, Filters: []rs.Filter{rs.Eq("hobby_id", hobbyID)}})
	require.NoError(t, err)
	require.Len(t, goals, 1)

	require.NoError(t, ann.Update(ctx, rs.Goals, rs.Record{"progress": 40}, rs.Eq("id", goals[0].String("id"))))
	goals, err = ann.Query(ctx, rs.Query{Collection: rs.Goals, Columns: []string{"progress"}, Filters: []rs.Filter{rs.Eq("hobby_id", hobbyID)}})
	require.NoError(t, err)
	assert.Equal(t, 40, goals[0].Int("progress"))

	require.NoError(t, ann.Delete(ctx, rs.Goals, rs.Eq("id", goals[0].String("id"))))

	err = ann.Insert(ctx, rs.Hobbies, rs.Record{"description": "no title"})
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestIntegration_ProfileUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dial, _ := startStore(t)
	g := dial()
	mustSignUp(t, g, "ann@example.com")

	require.NoError(t, g.Upsert(ctx, rs.Profiles, rs.Record{"display_name": "Ann"}))
	require.NoError(t, g.Upsert(ctx, rs.Profiles, rs.Record{"display_name": "Ann"}))

	profiles, err := g.Query(ctx, rs.Query{Collection: rs.Profiles, Columns: []string{"display_name"}})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Ann", profiles[0].String("display_name"))
}

func TestIntegration_ExpiredAccessTokenIsRefreshed(t *testing.T) {
	ctx := context.Background()
	dial, _ := startStore(t)
	g := dial()
	mustSignUp(t, g, "ann@example.com")
	events := recordEvents(g)

	s, _ := g.CurrentSession(ctx)
	expired, err := auth.GenerateToken(s.User.ID, s.User.Email, []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	g.mu.Lock()
	g.session.AccessToken = expired
	g.mu.Unlock()

	_, err = g.Query(ctx, rs.Query{Collection: rs.Hobbies})
	require.NoError(t, err)

	access, _ := g.tokens()
	assert.NotEqual(t, expired, access)
	require.Len(t, *events, 1)
	assert.Equal(t, TokenRefreshed, (*events)[0].Kind)
}

func TestIntegration_UploadBlob(t *testing.T) {
	ctx := context.Background()
	dial, sink := startStore(t)
	g := dial()
	mustSignUp(t, g, "ann@example.com")

	stored, err := g.UploadBlob(ctx, rs.BucketResources, "abc-notes.txt", []byte("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "abc-notes.txt", stored)
	assert.Equal(t, []byte("hello"), sink.blobs["/pp-resources/abc-notes.txt"])

	public, err := url.Parse(g.PublicURL(rs.BucketResources, stored))
	require.NoError(t, err)
	assert.Equal(t, "cdn.local", public.Host)
	assert.Contains(t, sink.blobs, public.Path, "public URL names the uploaded object")
}

func TestIntegration_ProtectedCallsNeedSession(t *testing.T) {
	ctx := context.Background()
	dial, _ := startStore(t)
	g := dial()

	_, err := g.Query(ctx, rs.Query{Collection: rs.Hobbies})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
