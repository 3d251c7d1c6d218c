package recordstore

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed is returned when a message lacks a required field or carries
// a value of the wrong type.
var ErrMalformed = errors.New("malformed message")

// Message keys.
const (
	keyCollection   = "collection"
	keyColumns      = "columns"
	keyFilters      = "filters"
	keyColumn       = "column"
	keyValue        = "value"
	keyOrder        = "order"
	keyAscending    = "ascending"
	keySingle       = "single"
	keyRecord       = "record"
	keyRecords      = "records"
	keyEmail        = "email"
	keyPassword     = "password"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
	keyID           = "id"
	keyBucket       = "bucket"
	keyPath         = "path"
	keyStoredPath   = "stored_path"
	keyUploadURL    = "upload_url"
	keyStatus       = "status"
)

// Normalize converts a database or caller value into a type structpb accepts.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string, float64, float32, int, int32, int64, uint, uint32, uint64:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *int:
		if x == nil {
			return nil
		}
		return *x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case Record:
		return normalizeMap(x)
	case map[string]any:
		return normalizeMap(x)
	default:
		return fmt.Sprint(x)
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(normalizeMap(m))
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

func filtersToWire(filters []Filter) []any {
	out := make([]any, 0, len(filters))
	for _, f := range filters {
		out = append(out, map[string]any{keyColumn: f.Column, keyValue: f.Value})
	}
	return out
}

func filtersFromWire(v any) ([]Filter, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: filters", ErrMalformed)
	}
	filters := make([]Filter, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: filter", ErrMalformed)
		}
		column, _ := m[keyColumn].(string)
		if column == "" {
			return nil, fmt.Errorf("%w: filter column", ErrMalformed)
		}
		filters = append(filters, Filter{Column: column, Value: m[keyValue]})
	}
	return filters, nil
}

func requiredString(m map[string]any, key string) (string, error) {
	s, _ := m[key].(string)
	if s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrMalformed, key)
	}
	return s, nil
}

// EncodeQuery converts a Query into its wire form.
func EncodeQuery(q Query) (*structpb.Struct, error) {
	m := map[string]any{
		keyCollection: q.Collection,
		keyColumns:    Normalize(q.Columns),
		keyFilters:    filtersToWire(q.Filters),
		keySingle:     q.Single,
	}
	if q.Order != nil {
		m[keyOrder] = map[string]any{keyColumn: q.Order.Column, keyAscending: q.Order.Ascending}
	}
	return newStruct(m)
}

// DecodeQuery parses a Query sent by EncodeQuery.
func DecodeQuery(s *structpb.Struct) (Query, error) {
	m := s.AsMap()
	collection, err := requiredString(m, keyCollection)
	if err != nil {
		return Query{}, err
	}
	q := Query{Collection: collection}
	if cols, ok := m[keyColumns].([]any); ok {
		for _, c := range cols {
			name, ok := c.(string)
			if !ok {
				return Query{}, fmt.Errorf("%w: column", ErrMalformed)
			}
			q.Columns = append(q.Columns, name)
		}
	}
	if q.Filters, err = filtersFromWire(m[keyFilters]); err != nil {
		return Query{}, err
	}
	if o, ok := m[keyOrder].(map[string]any); ok {
		column, _ := o[keyColumn].(string)
		ascending, _ := o[keyAscending].(bool)
		q.Order = &Order{Column: column, Ascending: ascending}
	}
	q.Single, _ = m[keySingle].(bool)
	return q, nil
}

// EncodeMutation converts a Mutation into its wire form.
func EncodeMutation(mu Mutation) (*structpb.Struct, error) {
	m := map[string]any{
		keyCollection: mu.Collection,
		keyFilters:    filtersToWire(mu.Filters),
	}
	if mu.Record != nil {
		m[keyRecord] = map[string]any(mu.Record)
	}
	return newStruct(m)
}

// DecodeMutation parses a Mutation sent by EncodeMutation.
func DecodeMutation(s *structpb.Struct) (Mutation, error) {
	m := s.AsMap()
	collection, err := requiredString(m, keyCollection)
	if err != nil {
		return Mutation{}, err
	}
	mu := Mutation{Collection: collection}
	if r, ok := m[keyRecord].(map[string]any); ok {
		mu.Record = Record(r)
	}
	if mu.Filters, err = filtersFromWire(m[keyFilters]); err != nil {
		return Mutation{}, err
	}
	return mu, nil
}

// EncodeRecords wraps records as {"records": [...]}.
func EncodeRecords(records []Record) (*structpb.Struct, error) {
	list := make([]any, 0, len(records))
	for _, r := range records {
		list = append(list, map[string]any(r))
	}
	return newStruct(map[string]any{keyRecords: list})
}

// DecodeRecords unwraps a message built by EncodeRecords. A missing list
// decodes to an empty, non-nil slice.
func DecodeRecords(s *structpb.Struct) ([]Record, error) {
	records := make([]Record, 0)
	if s == nil {
		return records, nil
	}
	raw, ok := s.AsMap()[keyRecords]
	if !ok || raw == nil {
		return records, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: records", ErrMalformed)
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record", ErrMalformed)
		}
		records = append(records, Record(m))
	}
	return records, nil
}

// EncodeCredentials builds a sign-in/sign-up request.
func EncodeCredentials(c Credentials) (*structpb.Struct, error) {
	return newStruct(map[string]any{keyEmail: c.Email, keyPassword: c.Password})
}

// DecodeCredentials parses a sign-in/sign-up request.
func DecodeCredentials(s *structpb.Struct) (Credentials, error) {
	m := s.AsMap()
	email, err := requiredString(m, keyEmail)
	if err != nil {
		return Credentials{}, err
	}
	password, err := requiredString(m, keyPassword)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: email, Password: password}, nil
}

// EncodeIdentity builds {"user": {...}}.
func EncodeIdentity(id Identity) (*structpb.Struct, error) {
	return newStruct(map[string]any{keyUser: identityToWire(id)})
}

// DecodeIdentity parses a message built by EncodeIdentity.
func DecodeIdentity(s *structpb.Struct) (Identity, error) {
	return identityFromWire(s.AsMap()[keyUser])
}

func identityToWire(id Identity) map[string]any {
	return map[string]any{keyID: id.ID, keyEmail: id.Email}
}

func identityFromWire(v any) (Identity, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Identity{}, fmt.Errorf("%w: user", ErrMalformed)
	}
	id, err := requiredString(m, keyID)
	if err != nil {
		return Identity{}, err
	}
	email, _ := m[keyEmail].(string)
	return Identity{ID: id, Email: email}, nil
}

// EncodeTokens builds a session response.
func EncodeTokens(t Tokens) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		keyAccessToken:  t.AccessToken,
		keyRefreshToken: t.RefreshToken,
		keyUser:         identityToWire(t.User),
	})
}

// DecodeTokens parses a session response.
func DecodeTokens(s *structpb.Struct) (Tokens, error) {
	m := s.AsMap()
	access, err := requiredString(m, keyAccessToken)
	if err != nil {
		return Tokens{}, err
	}
	refresh, _ := m[keyRefreshToken].(string)
	user, err := identityFromWire(m[keyUser])
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// EncodeRefreshToken builds a Refresh request.
func EncodeRefreshToken(token string) (*structpb.Struct, error) {
	return newStruct(map[string]any{keyRefreshToken: token})
}

// DecodeRefreshToken parses a Refresh request.
func DecodeRefreshToken(s *structpb.Struct) (string, error) {
	return requiredString(s.AsMap(), keyRefreshToken)
}

// EncodeUpload builds a CreateUpload request.
func EncodeUpload(u Upload) (*structpb.Struct, error) {
	return newStruct(map[string]any{keyBucket: u.Bucket, keyPath: u.Path})
}

// DecodeUpload parses a CreateUpload request.
func DecodeUpload(s *structpb.Struct) (Upload, error) {
	m := s.AsMap()
	bucket, err := requiredString(m, keyBucket)
	if err != nil {
		return Upload{}, err
	}
	path, err := requiredString(m, keyPath)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Bucket: bucket, Path: path}, nil
}

// EncodeUploadTicket builds a CreateUpload response.
func EncodeUploadTicket(t UploadTicket) (*structpb.Struct, error) {
	m := map[string]any{keyStoredPath: t.StoredPath, keyUploadURL: t.UploadURL}
	if t.Bucket != "" {
		m[keyBucket] = t.Bucket
	}
	return newStruct(m)
}

// DecodeUploadTicket parses a CreateUpload response.
func DecodeUploadTicket(s *structpb.Struct) (UploadTicket, error) {
	m := s.AsMap()
	stored, err := requiredString(m, keyStoredPath)
	if err != nil {
		return UploadTicket{}, err
	}
	url, err := requiredString(m, keyUploadURL)
	if err != nil {
		return UploadTicket{}, err
	}
	bucket, _ := m[keyBucket].(string)
	return UploadTicket{Bucket: bucket, StoredPath: stored, UploadURL: url}, nil
}

// EncodeStatus builds a Ping response.
func EncodeStatus(status string) (*structpb.Struct, error) {
	return newStruct(map[string]any{keyStatus: status})
}

// DecodeStatus parses a Ping response.
func DecodeStatus(s *structpb.Struct) string {
	status, _ := s.AsMap()[keyStatus].(string)
	return status
}
