package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/shareview/shareview/internal/model"
	"github.com/shareview/shareview/internal/pkg/dbutil"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
)

var shareLinkColumns = []string{
	"token", "owner_id", "name", "filter", "visible_columns", "allowed_emails",
	"active", "view_count", "ctime", "expires_at",
}

type ShareLinkRepo struct {
	db *sql.DB
}

func NewShareLinkRepo(db *sql.DB) *ShareLinkRepo {
	return &ShareLinkRepo{db: db}
}

func (r *ShareLinkRepo) Create(ctx context.Context, link *model.ShareLink) error {
	data, err := shareLinkRow(link)
	if err != nil {
		return err
	}
	sqlStr, args, err := builder.BuildInsert("share_links", []map[string]interface{}{data})
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

// Update overwrites the configurable fields of a link. The view counter
// and creation time are deliberately left untouched.
func (r *ShareLinkRepo) Update(ctx context.Context, link *model.ShareLink) error {
	data, err := shareLinkRow(link)
	if err != nil {
		return err
	}
	delete(data, "token")
	delete(data, "owner_id")
	delete(data, "view_count")
	delete(data, "ctime")
	where := map[string]interface{}{"token": link.Token, "owner_id": link.OwnerID}
	sqlStr, args, err := builder.BuildUpdate("share_links", where, data)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// Revoke flips the link inactive. Revoking an already-revoked link is a
// no-op, not an error.
func (r *ShareLinkRepo) Revoke(ctx context.Context, token, ownerID string) error {
	where := map[string]interface{}{"token": token, "owner_id": ownerID}
	update := map[string]interface{}{"active": model.LinkStateRevoked}
	sqlStr, args, err := builder.BuildUpdate("share_links", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *ShareLinkRepo) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	where := map[string]interface{}{"token": token}
	sqlStr, args, err := builder.BuildSelect("share_links", where, shareLinkColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanShareLink(rows)
}

func (r *ShareLinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.ShareLink, error) {
	where := map[string]interface{}{
		"owner_id": ownerID,
		"_orderby": "ctime desc",
	}
	sqlStr, args, err := builder.BuildSelect("share_links", where, shareLinkColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.ShareLink, 0)
	for rows.Next() {
		link, err := scanShareLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *link)
	}
	return items, rows.Err()
}

// IncrementViewCount bumps the counter by one in a single statement and
// returns the new value, so concurrent viewers never lose an update.
func (r *ShareLinkRepo) IncrementViewCount(ctx context.Context, token string) (int64, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE share_links SET view_count = view_count + 1 WHERE token = $1 RETURNING view_count", token)
	var count int64
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, appErr.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

func shareLinkRow(link *model.ShareLink) (map[string]interface{}, error) {
	filter, err := json.Marshal(link.Filter)
	if err != nil {
		return nil, err
	}
	columns, err := json.Marshal(link.VisibleColumns)
	if err != nil {
		return nil, err
	}
	emails, err := json.Marshal(link.AllowedEmails)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"token":           link.Token,
		"owner_id":        link.OwnerID,
		"name":            link.Name,
		"filter":          string(filter),
		"visible_columns": string(columns),
		"allowed_emails":  string(emails),
		"active":          link.Active,
		"view_count":      link.ViewCount,
		"ctime":           link.Ctime,
		"expires_at":      link.ExpiresAt,
	}, nil
}

func scanShareLink(rows *sql.Rows) (*model.ShareLink, error) {
	var link model.ShareLink
	var filter, columns, emails string
	if err := rows.Scan(
		&link.Token, &link.OwnerID, &link.Name, &filter, &columns, &emails,
		&link.Active, &link.ViewCount, &link.Ctime, &link.ExpiresAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(filter), &link.Filter); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(columns), &link.VisibleColumns); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(emails), &link.AllowedEmails); err != nil {
		return nil, err
	}
	return &link, nil
}
