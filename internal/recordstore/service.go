package recordstore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "passionpath.recordstore.RecordStore"

// RPC method names.
const (
	MethodPing         = "Ping"
	MethodSignUp       = "SignUp"
	MethodSignIn       = "SignIn"
	MethodRefresh      = "Refresh"
	MethodSignOut      = "SignOut"
	MethodGetUser      = "GetUser"
	MethodQuery        = "Query"
	MethodInsert       = "Insert"
	MethodUpdate       = "Update"
	MethodUpsert       = "Upsert"
	MethodDelete       = "Delete"
	MethodCreateUpload = "CreateUpload"
)

// FullMethod returns "/passionpath.recordstore.RecordStore/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PublicMethods may be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodPing):    true,
	FullMethod(MethodSignUp):  true,
	FullMethod(MethodSignIn):  true,
	FullMethod(MethodRefresh): true,
}

// RecordStoreServer is implemented by the record-store service.
type RecordStoreServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Insert(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Upsert(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(RecordStoreServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RecordStoreServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RecordStoreServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the RecordStore service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecordStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, RecordStoreServer.Ping),
		unary(MethodSignUp, RecordStoreServer.SignUp),
		unary(MethodSignIn, RecordStoreServer.SignIn),
		unary(MethodRefresh, RecordStoreServer.Refresh),
		unary(MethodSignOut, RecordStoreServer.SignOut),
		unary(MethodGetUser, RecordStoreServer.GetUser),
		unary(MethodQuery, RecordStoreServer.Query),
		unary(MethodInsert, RecordStoreServer.Insert),
		unary(MethodUpdate, RecordStoreServer.Update),
		unary(MethodUpsert, RecordStoreServer.Upsert),
		unary(MethodDelete, RecordStoreServer.Delete),
		unary(MethodCreateUpload, RecordStoreServer.CreateUpload),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "passionpath/recordstore",
}

// RegisterRecordStoreServer registers srv on s.
func RegisterRecordStoreServer(s grpc.ServiceRegistrar, srv RecordStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a thin unary client for the RecordStore service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with in (nil means an empty message).
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
