package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/passionpath/internal/common"
	"github.com/dmitrijs2005/passionpath/internal/dbx"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// SQLRepository implements Repository with squirrel-built statements. Writes
// use RETURNING, available on PostgreSQL and SQLite >= 3.35.
type SQLRepository struct {
	db dbx.DBTX
	sb sq.StatementBuilderType
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, sb: dbx.Builder(dialect)}
}

func (r *SQLRepository) Select(ctx context.Context, c rs.Collection, userID string, q rs.Query) ([]rs.Record, error) {
	columns := q.Columns
	if len(columns) == 0 {
		columns = c.Columns
	}

	b := r.sb.Select(columns...).From(c.Name).Where(where(c, userID, q.Filters))
	if q.Order != nil {
		dir := "DESC"
		if q.Order.Ascending {
			dir = "ASC"
		}
		b = b.OrderBy(q.Order.Column + " " + dir)
	}
	if q.Single {
		b = b.Limit(1)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.query(ctx, query, args)
}

func (r *SQLRepository) Insert(ctx context.Context, c rs.Collection, rec rs.Record) (rs.Record, error) {
	cols, vals := split(c, rec)
	query, args, err := r.sb.Insert(c.Name).
		Columns(cols...).
		Values(vals...).
		Suffix(returning(c)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.one(ctx, query, args)
}

func (r *SQLRepository) Update(ctx context.Context, c rs.Collection, userID string, patch rs.Record, filters []rs.Filter) ([]rs.Record, error) {
	cols, vals := split(c, patch)
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty patch", common.ErrorValidation)
	}

	b := r.sb.Update(c.Name)
	for i, col := range cols {
		b = b.Set(col, vals[i])
	}
	query, args, err := b.Where(where(c, userID, filters)).Suffix(returning(c)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.query(ctx, query, args)
}

func (r *SQLRepository) Upsert(ctx context.Context, c rs.Collection, rec rs.Record) (rs.Record, error) {
	if c.ConflictColumn == "" {
		return nil, fmt.Errorf("%w: %s does not support upsert", common.ErrorValidation, c.Name)
	}

	cols, vals := split(c, rec)
	var set []string
	for _, col := range cols {
		if col == c.ConflictColumn || col == rs.ColumnCreatedAt {
			continue
		}
		set = append(set, col+" = excluded."+col)
	}
	if len(set) == 0 {
		set = append(set, c.ConflictColumn+" = excluded."+c.ConflictColumn)
	}
	suffix := fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s %s", c.ConflictColumn, strings.Join(set, ", "), returning(c))

	query, args, err := r.sb.Insert(c.Name).Columns(cols...).Values(vals...).Suffix(suffix).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.one(ctx, query, args)
}

func (r *SQLRepository) Delete(ctx context.Context, c rs.Collection, userID string, filters []rs.Filter) ([]rs.Record, error) {
	query, args, err := r.sb.Delete(c.Name).
		Where(where(c, userID, filters)).
		Suffix(returning(c)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.query(ctx, query, args)
}

func (r *SQLRepository) HobbyOwner(ctx context.Context, hobbyID string) (string, error) {
	query, args, err := r.sb.Select(rs.ColumnUserID).
		From(rs.Hobbies).
		Where(sq.Eq{rs.ColumnID: hobbyID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var owner string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

func (r *SQLRepository) one(ctx context.Context, query string, args []any) (rs.Record, error) {
	recs, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, common.ErrorNotFound
	}
	return recs[0], nil
}

func (r *SQLRepository) query(ctx context.Context, query string, args []any) ([]rs.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := []rs.Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(rs.Record, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// where combines the caller scope with the request's equality filters.
func where(c rs.Collection, userID string, filters []rs.Filter) sq.And {
	conds := sq.And{scope(c, userID)}
	for _, f := range filters {
		conds = append(conds, sq.Eq{f.Column: dbValue(f.Value)})
	}
	return conds
}

func scope(c rs.Collection, userID string) sq.Sqlizer {
	if c.OwnerColumn != "" {
		return sq.Eq{c.OwnerColumn: userID}
	}
	return sq.Expr(c.ParentColumn+" IN (SELECT id FROM "+rs.Hobbies+" WHERE user_id = ?)", userID)
}

func returning(c rs.Collection) string {
	return "RETURNING " + strings.Join(c.Columns, ", ")
}

// split returns the record's columns in schema order with their values.
func split(c rs.Collection, rec rs.Record) ([]string, []any) {
	var cols []string
	var vals []any
	for _, col := range c.Columns {
		v, ok := rec[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, dbValue(v))
	}
	return cols, vals
}

// dbValue turns whole wire numbers back into integers.
func dbValue(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return v
}
