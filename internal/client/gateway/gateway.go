package gateway

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// EventKind classifies a session change.
type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
	TokenRefreshed
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	case TokenRefreshed:
		return "token_refreshed"
	default:
		return "unknown"
	}
}

// Event is delivered to session-change listeners. Session is nil after
// sign-out.
type Event struct {
	Kind    EventKind
	Session *models.Session
}

// Gateway is the client's view of the remote record store.
type Gateway interface {
	// CurrentIdentity resolves the identity behind the current session. It
	// reports false when there is no session or it cannot be resolved.
	CurrentIdentity(ctx context.Context) (models.Identity, bool)
	// CurrentSession reports the locally held session without a round trip.
	CurrentSession(ctx context.Context) (models.Session, bool)
	// OnSessionChange registers fn and returns a function that removes it.
	OnSessionChange(fn func(Event)) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error

	// Query returns the matching records; no match is an empty list.
	Query(ctx context.Context, q rs.Query) ([]rs.Record, error)
	Insert(ctx context.Context, collection string, record rs.Record) error
	Update(ctx context.Context, collection string, patch rs.Record, filters ...rs.Filter) error
	Upsert(ctx context.Context, collection string, record rs.Record) error
	Delete(ctx context.Context, collection string, filters ...rs.Filter) error

	// UploadBlob stores data at path inside bucket and returns the stored path.
	UploadBlob(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	// PublicURL never fails; it returns "" when the bucket is not resolvable.
	PublicURL(bucket, storedPath string) string
}
