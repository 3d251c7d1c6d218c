package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/passionpath/internal/common"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"github.com/dmitrijs2005/passionpath/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return rs.EncodeStatus("OK")
}

func (s *GRPCServer) SignUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds, err := rs.DecodeCredentials(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	tokens, err := s.auth.SignUp(ctx, creds)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", tokens.User.ID)
	return rs.EncodeTokens(*tokens)
}

func (s *GRPCServer) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds, err := rs.DecodeCredentials(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	tokens, err := s.auth.SignIn(ctx, creds)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rs.EncodeTokens(*tokens)
}

func (s *GRPCServer) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, err := rs.DecodeRefreshToken(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	tokens, err := s.auth.Refresh(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rs.EncodeTokens(*tokens)
}

func (s *GRPCServer) SignOut(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.auth.SignOut(ctx, caller.UserID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rs.EncodeStatus("OK")
}

func (s *GRPCServer) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return rs.EncodeIdentity(rs.Identity{ID: caller.UserID, Email: caller.Email})
}

func (s *GRPCServer) Query(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	q, err := rs.DecodeQuery(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	records, err := s.records.Query(ctx, caller.UserID, q)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rs.EncodeRecords(records)
}

func (s *GRPCServer) Insert(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(ctx, req, s.records.Insert)
}

func (s *GRPCServer) Update(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(ctx, req, s.records.Update)
}

func (s *GRPCServer) Upsert(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(ctx, req, s.records.Upsert)
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(ctx, req, s.records.Delete)
}

func (s *GRPCServer) CreateUpload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := callerFrom(ctx); err != nil {
		return nil, err
	}
	up, err := rs.DecodeUpload(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	ticket, err := s.uploads.PresignPut(ctx, up)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rs.EncodeUploadTicket(*ticket)
}

type mutation func(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error)

func (s *GRPCServer) mutate(ctx context.Context, req *structpb.Struct, op mutation) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	m, err := rs.DecodeMutation(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	records, err := op(ctx, caller.UserID, m)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return rs.EncodeRecords(records)
}

func callerFrom(ctx context.Context) (auth.Caller, error) {
	caller, ok := auth.CallerFromContext(ctx)
	if !ok {
		return auth.Caller{}, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return caller, nil
}

// toStatus maps domain errors to gRPC codes. Unexpected errors are logged
// and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, rs.ErrMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid login credentials")
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
