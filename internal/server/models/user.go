// Package models defines the server-side rows behind authentication.
// Collection records travel as recordstore.Record and have no struct here.
package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
