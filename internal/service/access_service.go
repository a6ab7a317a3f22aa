package service

import (
	"context"
	"errors"

	"github.com/shareview/shareview/internal/model"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
	"github.com/shareview/shareview/internal/pkg/jwt"
	"github.com/shareview/shareview/internal/pkg/timeutil"
	"github.com/shareview/shareview/internal/repo"
)

const (
	defaultPageSize = 20
	// maxPage keeps page*limit far away from integer wrap; pages past
	// the dataset come back empty either way.
	maxPage = 1 << 20
)

// AccessService gates every scoped read: it validates the bearer token,
// re-checks the link against its current persisted state, and serves
// pages of the dataset projected down to the link's scope.
type AccessService struct {
	links        *repo.ShareLinkRepo
	records      *repo.RecordRepo
	accessSecret []byte
	maxPageSize  uint
}

func NewAccessService(links *repo.ShareLinkRepo, records *repo.RecordRepo, accessSecret []byte, maxPageSize uint) *AccessService {
	if maxPageSize == 0 {
		maxPageSize = 100
	}
	return &AccessService{links: links, records: records, accessSecret: accessSecret, maxPageSize: maxPageSize}
}

// Authorize resolves the access token, re-loads the referenced link and
// re-evaluates its liveness. The re-load is what makes an owner revoke
// take effect on already-issued tokens: nothing about a previous
// successful call is cached. A passing call counts one view.
//
// linkToken is the link named in the request URL; a credential minted
// for a different link is rejected before anything is counted.
func (s *AccessService) Authorize(ctx context.Context, linkToken, accessToken string) (*model.ShareLink, error) {
	claims, err := jwt.ParseShareToken(accessToken, s.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrShareTokenExpired) {
			return nil, appErr.ErrTokenExpired
		}
		return nil, appErr.ErrTokenInvalid
	}
	if claims.LinkToken != linkToken {
		return nil, appErr.ErrTokenInvalid
	}
	link, err := s.links.GetByToken(ctx, claims.LinkToken)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrLinkNotLive
		}
		return nil, err
	}
	if !link.IsLive(timeutil.NowUnix()) {
		return nil, appErr.ErrLinkNotLive
	}
	if _, err := s.links.IncrementViewCount(ctx, link.Token); err != nil {
		return nil, err
	}
	return link, nil
}

type PageResult struct {
	Rows       []map[string]interface{} `json:"rows"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

// Read serves one page of the dataset under the link's scope. The
// caller contributes only pagination and a search string; the search
// narrows within the link's fixed filter and can never widen past it.
func (s *AccessService) Read(ctx context.Context, link *model.ShareLink, search string, page, limit int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if uint(limit) > s.maxPageSize {
		limit = int(s.maxPageSize)
	}
	offset := uint(page-1) * uint(limit)
	records, total, err := s.records.Page(ctx, link.Filter, search, uint(limit), offset)
	if err != nil {
		return nil, err
	}
	columns := link.VisibleColumns
	if len(columns) == 0 {
		columns = model.RecordColumns
	}
	rows := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		rows = append(rows, projectRecord(&records[i], columns))
	}
	totalPages := (total + limit - 1) / limit
	return &PageResult{
		Rows:       rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// projectRecord keeps exactly the named columns; everything else is
// stripped before the row leaves the service.
func projectRecord(record *model.Record, columns []string) map[string]interface{} {
	row := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		switch col {
		case "id":
			row[col] = record.ID
		case "name":
			row[col] = record.Name
		case "description":
			row[col] = record.Description
		case "category_id":
			row[col] = record.CategoryID
		case "media_type_id":
			row[col] = record.MediaTypeID
		case "status_id":
			row[col] = record.StatusID
		case "ctime":
			row[col] = record.Ctime
		case "mtime":
			row[col] = record.Mtime
		}
	}
	return row
}
