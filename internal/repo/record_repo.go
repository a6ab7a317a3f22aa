package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shareview/shareview/internal/model"
	"github.com/shareview/shareview/internal/pkg/dbutil"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
)

var recordColumns = []string{
	"id", "name", "description", "category_id", "media_type_id", "status_id", "ctime", "mtime",
}

// RecordRepo is the dataset collaborator: a read-mostly catalog the
// share subsystem can only page through under a fixed filter.
type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

func (r *RecordRepo) Create(ctx context.Context, record *model.Record) error {
	data := map[string]interface{}{
		"id":            record.ID,
		"name":          record.Name,
		"description":   record.Description,
		"category_id":   record.CategoryID,
		"media_type_id": record.MediaTypeID,
		"status_id":     record.StatusID,
		"ctime":         record.Ctime,
		"mtime":         record.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("records", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// Page returns one page of records under filter, optionally narrowed by
// a LIKE search over name and description, plus the total match count.
func (r *RecordRepo) Page(ctx context.Context, filter model.FilterSpec, search string, limit, offset uint) ([]model.Record, int, error) {
	total, err := r.count(ctx, filter, search)
	if err != nil {
		return nil, 0, err
	}
	where := recordWhere(filter, search)
	where["_orderby"] = "mtime desc"
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("records", where, recordColumns)
	if err != nil {
		return nil, 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.Record, 0)
	for rows.Next() {
		var record model.Record
		if err := rows.Scan(
			&record.ID, &record.Name, &record.Description, &record.CategoryID,
			&record.MediaTypeID, &record.StatusID, &record.Ctime, &record.Mtime,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, record)
	}
	return items, total, rows.Err()
}

func (r *RecordRepo) count(ctx context.Context, filter model.FilterSpec, search string) (int, error) {
	where := recordWhere(filter, search)
	sqlStr, args, err := builder.BuildSelect("records", where, []string{"COUNT(1)"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func recordWhere(filter model.FilterSpec, search string) map[string]interface{} {
	where := map[string]interface{}{}
	if filter.CategoryID != 0 {
		where["category_id"] = filter.CategoryID
	}
	if filter.MediaTypeID != 0 {
		where["media_type_id"] = filter.MediaTypeID
	}
	if filter.StatusID != 0 {
		where["status_id"] = filter.StatusID
	}
	if search != "" {
		like := "%" + search + "%"
		where["_custom_search"] = builder.Custom("(name LIKE ? OR description LIKE ?)", like, like)
	}
	return where
}
