package gateway

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// Disconnected is the Gateway used when no record store is configured.
// It never holds a session.
type Disconnected struct{}

var _ Gateway = Disconnected{}

func (Disconnected) CurrentIdentity(context.Context) (models.Identity, bool) {
	return models.Identity{}, false
}

func (Disconnected) CurrentSession(context.Context) (models.Session, bool) {
	return models.Session{}, false
}

func (Disconnected) OnSessionChange(func(Event)) func() { return func() {} }

func (Disconnected) SignIn(context.Context, string, string) error {
	return &AuthError{Op: "sign in", Err: ErrNotConnected}
}

func (Disconnected) SignUp(context.Context, string, string) error {
	return &AuthError{Op: "sign up", Err: ErrNotConnected}
}

func (Disconnected) SignOut(context.Context) error { return nil }

func (Disconnected) Query(context.Context, rs.Query) ([]rs.Record, error) {
	return []rs.Record{}, nil
}

func (Disconnected) Insert(_ context.Context, collection string, _ rs.Record) error {
	return &WriteError{Op: "insert", Collection: collection, Err: ErrNotConnected}
}

func (Disconnected) Update(_ context.Context, collection string, _ rs.Record, _ ...rs.Filter) error {
	return &WriteError{Op: "update", Collection: collection, Err: ErrNotConnected}
}

func (Disconnected) Upsert(_ context.Context, collection string, _ rs.Record) error {
	return &WriteError{Op: "upsert", Collection: collection, Err: ErrNotConnected}
}

func (Disconnected) Delete(_ context.Context, collection string, _ ...rs.Filter) error {
	return &WriteError{Op: "delete", Collection: collection, Err: ErrNotConnected}
}

func (Disconnected) UploadBlob(_ context.Context, bucket, path string, _ []byte, _ string) (string, error) {
	return "", &StorageError{Bucket: bucket, Path: path, Err: ErrNotConnected}
}

func (Disconnected) PublicURL(string, string) string { return "" }
