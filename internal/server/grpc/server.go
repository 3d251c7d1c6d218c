// Package grpc exposes the record store over gRPC using the hand-declared
// recordstore.ServiceDesc.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/passionpath/internal/logging"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"google.golang.org/grpc"
)

// Authenticator is the account side of the service.
type Authenticator interface {
	SignUp(ctx context.Context, creds rs.Credentials) (*rs.Tokens, error)
	SignIn(ctx context.Context, creds rs.Credentials) (*rs.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*rs.Tokens, error)
	SignOut(ctx context.Context, userID string) error
}

// Records runs collection operations on behalf of a user.
type Records interface {
	Query(ctx context.Context, userID string, q rs.Query) ([]rs.Record, error)
	Insert(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error)
	Update(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error)
	Upsert(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error)
	Delete(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error)
}

// Uploads presigns blob uploads.
type Uploads interface {
	PresignPut(ctx context.Context, up rs.Upload) (*rs.UploadTicket, error)
}

type GRPCServer struct {
	address   string
	auth      Authenticator
	records   Records
	uploads   Uploads
	logger    logging.Logger
	jwtSecret []byte
}

var _ rs.RecordStoreServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, auth Authenticator, records Records, uploads Uploads, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		auth:      auth,
		records:   records,
		uploads:   uploads,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a grpc.Server with the interceptors and the service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	rs.RegisterRecordStoreServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
