package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/passionpath/internal/common"
	"github.com/dmitrijs2005/passionpath/internal/dbx"
	"github.com/dmitrijs2005/passionpath/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db, dbx.DialectPostgres), mock, db
}

const insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,email,password_hash,created_at\)\s*VALUES\s*\(\$1,\$2,\$3,\$4\)$`
const selectByEmail = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("server-set fields missing: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com", PasswordHash: "hash"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
		AddRow("u-1", "alice@example.com", "hash", created)
	mock.ExpectQuery(selectByEmail).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.PasswordHash != "hash" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByEmail).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
