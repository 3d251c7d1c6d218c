package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/common"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RecordService applies the per-collection rules on top of the records
// repository: column validation, server-set fields and parent ownership.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: m,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func (s *RecordService) Query(ctx context.Context, userID string, q rs.Query) ([]rs.Record, error) {
	c, err := collection(q.Collection)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(c, q.Columns...); err != nil {
		return nil, err
	}
	if err := checkFilters(c, q.Filters); err != nil {
		return nil, err
	}
	if q.Order != nil {
		if err := checkColumns(c, q.Order.Column); err != nil {
			return nil, err
		}
	}
	return s.repomanager.Records(s.db).Select(ctx, c, userID, q)
}

func (s *RecordService) Insert(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error) {
	c, err := collection(m.Collection)
	if err != nil {
		return nil, err
	}
	rec, err := s.prepare(ctx, c, userID, m.Record)
	if err != nil {
		return nil, err
	}
	if c.HasColumn(rs.ColumnID) {
		rec[rs.ColumnID] = s.newID()
	}

	out, err := s.repomanager.Records(s.db).Insert(ctx, c, rec)
	if err != nil {
		return nil, err
	}
	return []rs.Record{out}, nil
}

func (s *RecordService) Upsert(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error) {
	c, err := collection(m.Collection)
	if err != nil {
		return nil, err
	}
	if c.ConflictColumn == "" {
		return nil, fmt.Errorf("%w: %s does not support upsert", common.ErrorValidation, c.Name)
	}
	rec, err := s.prepare(ctx, c, userID, m.Record)
	if err != nil {
		return nil, err
	}

	out, err := s.repomanager.Records(s.db).Upsert(ctx, c, rec)
	if err != nil {
		return nil, err
	}
	return []rs.Record{out}, nil
}

// Update applies patch to the caller's rows matching filters. Server-set
// and parent columns cannot be patched.
func (s *RecordService) Update(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error) {
	c, err := collection(m.Collection)
	if err != nil {
		return nil, err
	}
	if err := checkFilters(c, m.Filters); err != nil {
		return nil, err
	}
	if len(m.Filters) == 0 {
		return nil, fmt.Errorf("%w: update requires a filter", common.ErrorValidation)
	}

	patch := rs.Record{}
	for col, v := range m.Record {
		if err := checkColumns(c, col); err != nil {
			return nil, err
		}
		if c.ServerSet(col) || col == c.ParentColumn {
			continue
		}
		patch[col] = v
	}
	if err := checkValues(c, patch, false); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty patch", common.ErrorValidation)
	}

	return s.repomanager.Records(s.db).Update(ctx, c, userID, patch, m.Filters)
}

func (s *RecordService) Delete(ctx context.Context, userID string, m rs.Mutation) ([]rs.Record, error) {
	c, err := collection(m.Collection)
	if err != nil {
		return nil, err
	}
	if err := checkFilters(c, m.Filters); err != nil {
		return nil, err
	}
	if len(m.Filters) == 0 {
		return nil, fmt.Errorf("%w: delete requires a filter", common.ErrorValidation)
	}
	return s.repomanager.Records(s.db).Delete(ctx, c, userID, m.Filters)
}

// prepare validates a new row and fills the server-owned columns.
func (s *RecordService) prepare(ctx context.Context, c rs.Collection, userID string, in rs.Record) (rs.Record, error) {
	rec := rs.Record{}
	for col, v := range in {
		if err := checkColumns(c, col); err != nil {
			return nil, err
		}
		if c.ServerSet(col) {
			continue
		}
		rec[col] = v
	}
	if err := checkValues(c, rec, true); err != nil {
		return nil, err
	}

	if c.OwnerColumn != "" {
		rec[c.OwnerColumn] = userID
	}
	if c.ParentColumn != "" {
		if err := s.checkParent(ctx, userID, rec[c.ParentColumn]); err != nil {
			return nil, err
		}
	}
	rec[rs.ColumnCreatedAt] = s.now()
	return rec, nil
}

// checkParent verifies that the hobby referenced by a child row belongs to
// the caller. Missing hobbies are reported as forbidden too.
func (s *RecordService) checkParent(ctx context.Context, userID string, parent any) error {
	hobbyID, _ := parent.(string)
	if hobbyID == "" {
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, rs.ColumnHobbyID)
	}
	owner, err := s.repomanager.Records(s.db).HobbyOwner(ctx, hobbyID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrForbidden
		}
		return err
	}
	if owner != userID {
		return common.ErrForbidden
	}
	return nil
}

func collection(name string) (rs.Collection, error) {
	c, ok := rs.LookupCollection(name)
	if !ok {
		return rs.Collection{}, fmt.Errorf("%w: unknown collection %q", common.ErrorValidation, name)
	}
	return c, nil
}

func checkColumns(c rs.Collection, columns ...string) error {
	for _, col := range columns {
		if !c.HasColumn(col) {
			return fmt.Errorf("%w: unknown column %s.%s", common.ErrorValidation, c.Name, col)
		}
	}
	return nil
}

func checkFilters(c rs.Collection, filters []rs.Filter) error {
	for _, f := range filters {
		if err := checkColumns(c, f.Column); err != nil {
			return err
		}
		switch f.Value.(type) {
		case nil, string, bool, float64, int, int64:
		default:
			return fmt.Errorf("%w: filter on %s must be a scalar", common.ErrorValidation, f.Column)
		}
	}
	return nil
}

// checkValues enforces the few column rules the store itself relies on.
// New rows must carry every required column, patches only non-empty ones.
func checkValues(c rs.Collection, rec rs.Record, newRow bool) error {
	for _, col := range requiredColumns[c.Name] {
		v, present := rec[col]
		if !present && !newRow {
			continue
		}
		if s, _ := v.(string); s == "" {
			return fmt.Errorf("%w: %s is required", common.ErrorValidation, col)
		}
	}
	if t, ok := rec["type"]; ok && c.Name == rs.Resources && t != "link" && t != "file" {
		return fmt.Errorf("%w: resource type must be link or file", common.ErrorValidation)
	}
	return nil
}

var requiredColumns = map[string][]string{
	rs.Hobbies:   {"title"},
	rs.Goals:     {"title"},
	rs.Notes:     {"content"},
	rs.Resources: {"type"},
}
