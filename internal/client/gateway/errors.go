package gateway

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrRejected covers requests the service refused as invalid, duplicate
	// or not found.
	ErrRejected     = errors.New("request rejected")
	ErrNotConnected = errors.New("record store not connected")
)

// AuthError reports a failed sign-in, sign-up or sign-out.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// QueryError reports a failed read.
type QueryError struct {
	Collection string
	Err        error
}

func (e *QueryError) Error() string { return "query " + e.Collection + ": " + e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }

// WriteError reports a failed insert, update, upsert or delete.
type WriteError struct {
	Op         string
	Collection string
	Err        error
}

func (e *WriteError) Error() string { return e.Op + " " + e.Collection + ": " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// StorageError reports a failed blob upload.
type StorageError struct {
	Bucket string
	Path   string
	Err    error
}

func (e *StorageError) Error() string {
	return "upload " + e.Bucket + "/" + e.Path + ": " + e.Err.Error()
}
func (e *StorageError) Unwrap() error { return e.Err }

// remoteError carries the service's message and matches its sentinel kind.
type remoteError struct {
	kind error
	msg  string
}

func (e *remoteError) Error() string {
	if e.msg == "" {
		return e.kind.Error()
	}
	return e.msg
}

func (e *remoteError) Is(target error) bool { return target == e.kind }

// Message returns the user-facing part of err: for gateway errors, the cause
// without the operation prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		ae *AuthError
		qe *QueryError
		we *WriteError
		se *StorageError
	)
	switch {
	case errors.As(err, &ae):
		return ae.Err.Error()
	case errors.As(err, &qe):
		return qe.Err.Error()
	case errors.As(err, &we):
		return we.Err.Error()
	case errors.As(err, &se):
		return se.Err.Error()
	default:
		return err.Error()
	}
}
