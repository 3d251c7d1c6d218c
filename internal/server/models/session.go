package models

import "time"

// Session is a refresh token row. Access tokens are stateless JWTs; signing
// out deletes the caller's sessions so refresh stops working.
type Session struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
