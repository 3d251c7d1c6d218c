package gateway

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	"github.com/dmitrijs2005/passionpath/internal/common"
	"github.com/dmitrijs2005/passionpath/internal/logging"
	"github.com/dmitrijs2005/passionpath/internal/netx"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type caller interface {
	Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type uploadFunc func(ctx context.Context, url string, data []byte, contentType string) error

type listener struct {
	id int
	fn func(Event)
}

// GRPCGateway is the Gateway backed by the record-store gRPC service.
type GRPCGateway struct {
	endpointURL string
	publicURL   string
	conn        *grpc.ClientConn
	client      caller
	upload      uploadFunc
	logger      logging.Logger

	refreshMu sync.Mutex

	mu        sync.RWMutex
	session   *rs.Tokens
	listeners []listener
	nextID    int
	// buckets maps a logical bucket to the physical one reported by the
	// service on upload.
	buckets map[string]string
}

var _ Gateway = (*GRPCGateway)(nil)

// NewGRPCGateway creates a gateway for endpointURL. The connection is
// established lazily; extra dial options are appended to the defaults.
// publicURL is the base under which "<bucket>/<path>" blobs are readable.
func NewGRPCGateway(endpointURL, publicURL string, l logging.Logger, opts ...grpc.DialOption) (*GRPCGateway, error) {
	g := &GRPCGateway{
		endpointURL: endpointURL,
		publicURL:   publicURL,
		upload:      netx.UploadToPresignedURL,
		logger:      l.With("module", "gateway"),
		buckets:     make(map[string]string),
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(g.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	g.conn = conn
	g.client = rs.NewClient(conn)
	return g, nil
}

func (g *GRPCGateway) Close() error {
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (g *GRPCGateway) tokens() (access, refresh string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return "", ""
	}
	return g.session.AccessToken, g.session.RefreshToken
}

// accessTokenInterceptor attaches the access token to protected calls and,
// when the service reports it expired, refreshes the session once and
// retries the call.
func (g *GRPCGateway) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if rs.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := g.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) || refresh == "" {
		return err
	}

	if rerr := g.refresh(ctx, refresh); rerr != nil {
		g.logger.Debug(ctx, "token refresh failed", "error", rerr)
		return err
	}

	access, _ = g.tokens()
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

// refresh rotates the session. Concurrent callers holding the same stale
// refresh token share one round trip.
func (g *GRPCGateway) refresh(ctx context.Context, refreshToken string) error {
	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()

	if _, current := g.tokens(); current != refreshToken {
		if current == "" {
			return ErrUnauthorized
		}
		return nil
	}

	in, err := rs.EncodeRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	out, err := g.client.Call(ctx, rs.MethodRefresh, in)
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated {
			g.setSession(nil, SignedOut)
		}
		return err
	}
	tokens, err := rs.DecodeTokens(out)
	if err != nil {
		return err
	}
	g.setSession(&tokens, TokenRefreshed)
	return nil
}

func (g *GRPCGateway) setSession(t *rs.Tokens, kind EventKind) {
	g.mu.Lock()
	g.session = t
	ls := make([]listener, len(g.listeners))
	copy(ls, g.listeners)
	g.mu.Unlock()

	ev := Event{Kind: kind, Session: toSession(t)}
	for _, l := range ls {
		l.fn(ev)
	}
}

func toSession(t *rs.Tokens) *models.Session {
	if t == nil {
		return nil
	}
	return &models.Session{
		AccessToken: t.AccessToken,
		User:        models.Identity{ID: t.User.ID, Email: t.User.Email},
	}
}

func (g *GRPCGateway) CurrentSession(context.Context) (models.Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s := toSession(g.session)
	if s == nil {
		return models.Session{}, false
	}
	return *s, true
}

// CurrentIdentity asks the service who the access token belongs to.
func (g *GRPCGateway) CurrentIdentity(ctx context.Context) (models.Identity, bool) {
	if _, ok := g.CurrentSession(ctx); !ok {
		return models.Identity{}, false
	}
	out, err := g.client.Call(ctx, rs.MethodGetUser, nil)
	if err != nil {
		g.logger.Debug(ctx, "identity lookup failed", "error", err)
		return models.Identity{}, false
	}
	id, err := rs.DecodeIdentity(out)
	if err != nil {
		g.logger.Warn(ctx, "malformed identity", "error", err)
		return models.Identity{}, false
	}
	return models.Identity{ID: id.ID, Email: id.Email}, true
}

func (g *GRPCGateway) OnSessionChange(fn func(Event)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := g.nextID
	g.listeners = append(g.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			for i, l := range g.listeners {
				if l.id == id {
					g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (g *GRPCGateway) SignIn(ctx context.Context, email, password string) error {
	return g.authenticate(ctx, "sign in", rs.MethodSignIn, email, password)
}

// SignUp registers the account; the service signs the new user in as well.
func (g *GRPCGateway) SignUp(ctx context.Context, email, password string) error {
	return g.authenticate(ctx, "sign up", rs.MethodSignUp, email, password)
}

func (g *GRPCGateway) authenticate(ctx context.Context, op, method, email, password string) error {
	in, err := rs.EncodeCredentials(rs.Credentials{Email: email, Password: password})
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}
	out, err := g.client.Call(ctx, method, in)
	if err != nil {
		return &AuthError{Op: op, Err: mapError(err)}
	}
	tokens, err := rs.DecodeTokens(out)
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}
	g.setSession(&tokens, SignedIn)
	return nil
}

// SignOut revokes the session remotely and always drops it locally.
func (g *GRPCGateway) SignOut(ctx context.Context) error {
	if _, ok := g.CurrentSession(ctx); !ok {
		return nil
	}
	_, err := g.client.Call(ctx, rs.MethodSignOut, nil)
	g.setSession(nil, SignedOut)
	if err != nil {
		return &AuthError{Op: "sign out", Err: mapError(err)}
	}
	return nil
}

func (g *GRPCGateway) Query(ctx context.Context, q rs.Query) ([]rs.Record, error) {
	in, err := rs.EncodeQuery(q)
	if err != nil {
		return nil, &QueryError{Collection: q.Collection, Err: err}
	}
	out, err := g.client.Call(ctx, rs.MethodQuery, in)
	if err != nil {
		return nil, &QueryError{Collection: q.Collection, Err: mapError(err)}
	}
	records, err := rs.DecodeRecords(out)
	if err != nil {
		return nil, &QueryError{Collection: q.Collection, Err: err}
	}
	return records, nil
}

func (g *GRPCGateway) Insert(ctx context.Context, collection string, record rs.Record) error {
	return g.write(ctx, "insert", rs.MethodInsert, rs.Mutation{Collection: collection, Record: record})
}

func (g *GRPCGateway) Update(ctx context.Context, collection string, patch rs.Record, filters ...rs.Filter) error {
	return g.write(ctx, "update", rs.MethodUpdate, rs.Mutation{Collection: collection, Record: patch, Filters: filters})
}

func (g *GRPCGateway) Upsert(ctx context.Context, collection string, record rs.Record) error {
	return g.write(ctx, "upsert", rs.MethodUpsert, rs.Mutation{Collection: collection, Record: record})
}

func (g *GRPCGateway) Delete(ctx context.Context, collection string, filters ...rs.Filter) error {
	return g.write(ctx, "delete", rs.MethodDelete, rs.Mutation{Collection: collection, Filters: filters})
}

func (g *GRPCGateway) write(ctx context.Context, op, method string, m rs.Mutation) error {
	in, err := rs.EncodeMutation(m)
	if err != nil {
		return &WriteError{Op: op, Collection: m.Collection, Err: err}
	}
	if _, err := g.client.Call(ctx, method, in); err != nil {
		return &WriteError{Op: op, Collection: m.Collection, Err: mapError(err)}
	}
	return nil
}

// UploadBlob obtains a presigned URL from the service and PUTs data there.
func (g *GRPCGateway) UploadBlob(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &StorageError{Bucket: bucket, Path: path, Err: err}
	}

	in, err := rs.EncodeUpload(rs.Upload{Bucket: bucket, Path: path})
	if err != nil {
		return fail(err)
	}
	out, err := g.client.Call(ctx, rs.MethodCreateUpload, in)
	if err != nil {
		return fail(mapError(err))
	}
	ticket, err := rs.DecodeUploadTicket(out)
	if err != nil {
		return fail(err)
	}
	if err := g.upload(ctx, ticket.UploadURL, data, contentType); err != nil {
		return fail(err)
	}
	if ticket.Bucket != "" {
		g.mu.Lock()
		g.buckets[bucket] = ticket.Bucket
		g.mu.Unlock()
	}
	return ticket.StoredPath, nil
}

// PublicURL names the object under the physical bucket learned from the
// last upload into bucket, or under bucket itself.
func (g *GRPCGateway) PublicURL(bucket, storedPath string) string {
	if g.publicURL == "" || bucket == "" || storedPath == "" {
		return ""
	}
	g.mu.RLock()
	physical, ok := g.buckets[bucket]
	g.mu.RUnlock()
	if !ok {
		physical = bucket
	}
	u, err := url.JoinPath(g.publicURL, physical, storedPath)
	if err != nil {
		return ""
	}
	return u
}

// Ping checks that the service answers.
func (g *GRPCGateway) Ping(ctx context.Context) error {
	out, err := g.client.Call(ctx, rs.MethodPing, nil)
	if err != nil {
		return mapError(err)
	}
	if rs.DecodeStatus(out) != "OK" {
		return ErrUnavailable
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return &remoteError{kind: ErrUnauthorized, msg: st.Message()}
	case codes.PermissionDenied:
		return &remoteError{kind: ErrForbidden, msg: st.Message()}
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument, codes.AlreadyExists, codes.NotFound, codes.FailedPrecondition:
		return &remoteError{kind: ErrRejected, msg: st.Message()}
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
