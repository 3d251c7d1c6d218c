// Package records stores the rows of every client-visible collection.
//
// Rows are scoped to the caller: owned collections by their owner column,
// child collections through the owning hobby. Callers validate column names
// against recordstore.Collection before reaching the repository.
package records

import (
	"context"

	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

type Repository interface {
	Select(ctx context.Context, c rs.Collection, userID string, q rs.Query) ([]rs.Record, error)
	Insert(ctx context.Context, c rs.Collection, rec rs.Record) (rs.Record, error)
	Update(ctx context.Context, c rs.Collection, userID string, patch rs.Record, filters []rs.Filter) ([]rs.Record, error)
	Upsert(ctx context.Context, c rs.Collection, rec rs.Record) (rs.Record, error)
	Delete(ctx context.Context, c rs.Collection, userID string, filters []rs.Filter) ([]rs.Record, error)

	// HobbyOwner returns the user id owning hobbyID or common.ErrorNotFound.
	HobbyOwner(ctx context.Context, hobbyID string) (string, error)
}
