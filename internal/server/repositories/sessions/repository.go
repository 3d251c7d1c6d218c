// Package sessions declares the server-side repository for refresh sessions.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/server/models"
)

// Repository issues, looks up and revokes refresh sessions.
type Repository interface {
	// Create stores token for userID expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error

	DeleteByUser(ctx context.Context, userID string) error
}
