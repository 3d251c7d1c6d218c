// Package gateway is the client's single chokepoint for remote communication
// with the record store.
//
// # Overview
//
// The Gateway interface covers identity and session queries, session-change
// notification, scoped record operations (query, insert, update, upsert,
// delete) and blob storage (upload and public URL resolution). Two
// implementations are provided:
//
//   - GRPCGateway talks to the record-store service over gRPC. It injects the
//     access token via a unary interceptor, transparently refreshes an expired
//     token once, and maps gRPC status codes to sentinel errors.
//   - Disconnected stands in when no service is configured: reads come back
//     empty, while writes, uploads and sign-in/sign-up fail uniformly.
//
// # Error Handling
//
// Failures are returned as *AuthError, *QueryError, *WriteError or
// *StorageError. Each wraps a cause that can be matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrRejected, ErrNotConnected.
//
// # Concurrency
//
// Implementations are safe for concurrent use. Session-change listeners run
// synchronously on the goroutine that changed the session.
package gateway
