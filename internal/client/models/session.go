// Package models defines the client-side entities of My Passion Path and
// their mapping from record-store rows.
package models

// Identity is the authenticated user.
type Identity struct {
	ID    string
	Email string
}

// Session is the proof of authentication held by one client process.
type Session struct {
	AccessToken string
	User        Identity
}
