package users

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
	"github.com/google/uuid"
)

// SQLRepository implements Repository over dbx.DBTX for both dialects.
type SQLRepository struct {
	db dbx.DBTX
	sb sq.StatementBuilderType
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, sb: dbx.Builder(dialect)}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("users").
		Columns("id", "email", "password_hash", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email})
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *SQLRepository) getBy(ctx context.Context, pred sq.Eq) (*models.User, error) {
	query, args, err := r.sb.Select("id", "email", "password_hash", "created_at").
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
