// Package recordstore is the wire contract between the passionpath client
// and the record-store service.
//
// The service exposes scoped CRUD over a fixed set of collections (hobbies,
// goals, notes, resources, profiles), password sessions, and presigned blob
// uploads into two buckets (hobby-covers, resources). Records are schemaless
// on the wire: every RPC takes and returns a google.protobuf.Struct, and the
// helpers in this package convert those to the typed Query, Mutation,
// Credentials, Tokens and Upload values used on both sides.
//
// The gRPC service descriptor is declared by hand in service.go because the
// messages are well-known types; no code generation is involved.
package recordstore
