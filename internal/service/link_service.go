package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/shareview/shareview/internal/model"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
	"github.com/shareview/shareview/internal/pkg/timeutil"
	"github.com/shareview/shareview/internal/repo"
)

const secondsPerHour = 3600

// LinkService owns the share-link lifecycle: creation, reconfiguration,
// revocation and the owner-facing listings.
type LinkService struct {
	links         *repo.ShareLinkRepo
	publicBaseURL string
}

func NewLinkService(links *repo.ShareLinkRepo, publicBaseURL string) *LinkService {
	return &LinkService{links: links, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

type LinkInput struct {
	Name           string
	Filter         model.FilterSpec
	VisibleColumns []string
	AllowedEmails  []string
	DurationHours  int
}

// LinkView is the owner-facing projection of a link, with liveness
// derived at read time.
type LinkView struct {
	model.ShareLink
	IsLive bool   `json:"is_live"`
	URL    string `json:"url"`
}

func (s *LinkService) Create(ctx context.Context, ownerID string, input LinkInput) (*LinkView, error) {
	normalized, err := normalizeLinkInput(input)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	link := &model.ShareLink{
		Token:          newToken(),
		OwnerID:        ownerID,
		Name:           normalized.Name,
		Filter:         normalized.Filter,
		VisibleColumns: normalized.VisibleColumns,
		AllowedEmails:  normalized.AllowedEmails,
		Active:         model.LinkStateActive,
		ViewCount:      0,
		Ctime:          now,
		ExpiresAt:      now + int64(normalized.DurationHours)*secondsPerHour,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return s.view(link, now), nil
}

// Update overwrites the link configuration and recomputes the expiry
// from now, not from the previous deadline. The view counter survives.
func (s *LinkService) Update(ctx context.Context, ownerID, token string, input LinkInput) (*LinkView, error) {
	normalized, err := normalizeLinkInput(input)
	if err != nil {
		return nil, err
	}
	link, err := s.owned(ctx, ownerID, token)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	link.Name = normalized.Name
	link.Filter = normalized.Filter
	link.VisibleColumns = normalized.VisibleColumns
	link.AllowedEmails = normalized.AllowedEmails
	link.ExpiresAt = now + int64(normalized.DurationHours)*secondsPerHour
	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	return s.view(link, now), nil
}

func (s *LinkService) Revoke(ctx context.Context, ownerID, token string) error {
	if _, err := s.owned(ctx, ownerID, token); err != nil {
		return err
	}
	return s.links.Revoke(ctx, token, ownerID)
}

func (s *LinkService) List(ctx context.Context, ownerID string) ([]LinkView, error) {
	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	items := make([]LinkView, 0, len(links))
	for i := range links {
		items = append(items, *s.view(&links[i], now))
	}
	return items, nil
}

func (s *LinkService) GetConfig(ctx context.Context, ownerID, token string) (*LinkView, error) {
	link, err := s.owned(ctx, ownerID, token)
	if err != nil {
		return nil, err
	}
	return s.view(link, timeutil.NowUnix()), nil
}

func (s *LinkService) owned(ctx context.Context, ownerID, token string) (*model.ShareLink, error) {
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != ownerID {
		return nil, appErr.ErrForbidden
	}
	return link, nil
}

func (s *LinkService) view(link *model.ShareLink, now int64) *LinkView {
	return &LinkView{
		ShareLink: *link,
		IsLive:    link.IsLive(now),
		URL:       s.publicBaseURL + "/s/" + link.Token,
	}
}

func normalizeLinkInput(input LinkInput) (LinkInput, error) {
	if input.DurationHours <= 0 {
		return input, appErr.ErrInvalid
	}
	columns := make([]string, 0, len(input.VisibleColumns))
	for _, col := range input.VisibleColumns {
		col = strings.TrimSpace(strings.ToLower(col))
		if col == "" {
			continue
		}
		if !model.IsRecordColumn(col) {
			return input, appErr.ErrInvalid
		}
		columns = append(columns, col)
	}
	emails := make([]string, 0, len(input.AllowedEmails))
	seen := make(map[string]struct{}, len(input.AllowedEmails))
	for _, email := range input.AllowedEmails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return input, appErr.ErrInvalid
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	input.Name = strings.TrimSpace(input.Name)
	input.VisibleColumns = columns
	input.AllowedEmails = emails
	return input, nil
}
