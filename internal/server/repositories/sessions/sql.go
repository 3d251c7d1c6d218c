package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/passionpath/internal/common"
	"github.com/dmitrijs2005/passionpath/internal/dbx"
	"github.com/dmitrijs2005/passionpath/internal/server/models"
)

// SQLRepository implements Repository over dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	sb sq.StatementBuilderType
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, sb: dbx.Builder(dialect)}
}

func (r *SQLRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	now := time.Now().UTC()
	query, args, err := r.sb.Insert("sessions").
		Columns("token", "user_id", "expires_at", "created_at").
		Values(token, userID, now.Add(validity), now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *SQLRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	query, args, err := r.sb.Select("user_id", "expires_at", "created_at").
		From("sessions").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s := &models.Session{Token: token}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.UserID, &s.Expires, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLRepository) Delete(ctx context.Context, token string) error {
	return r.delete(ctx, sq.Eq{"token": token})
}

func (r *SQLRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.delete(ctx, sq.Eq{"user_id": userID})
}

func (r *SQLRepository) delete(ctx context.Context, pred sq.Eq) error {
	query, args, err := r.sb.Delete("sessions").Where(pred).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
