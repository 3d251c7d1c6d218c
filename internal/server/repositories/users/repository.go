// Package users declares the server-side repository for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/server/models"
)

// Repository stores accounts. Lookups return common.ErrorNotFound when no
// row matches and Create returns common.ErrorAlreadyExists for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
