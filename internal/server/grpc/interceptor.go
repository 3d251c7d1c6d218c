package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/common"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"github.com/dmitrijs2005/passionpath/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// accessTokenInterceptor authenticates every non-public method and stores
// the caller in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if rs.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = auth.WithCaller(ctx, auth.Caller{UserID: claims.UserID, Email: claims.Email})
	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "rpc served", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "rpc failed", append(args, "error", err)...)
	default:
		s.logger.Info(ctx, "rpc rejected", append(args, "error", err)...)
	}
	return resp, err
}
