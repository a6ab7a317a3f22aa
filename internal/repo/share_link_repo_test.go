package repo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shareview/shareview/internal/model"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
	"github.com/shareview/shareview/internal/repo"
	"github.com/shareview/shareview/internal/testutil"
)

func newTestLink(token, owner string) *model.ShareLink {
	return &model.ShareLink{
		Token:   token,
		OwnerID: owner,
		Name:    "test link",
		Filter: model.FilterSpec{
			CategoryID: 7,
		},
		VisibleColumns: []string{"id", "name"},
		AllowedEmails:  []string{"a@x.com"},
		Active:         model.LinkStateActive,
		Ctime:          1000,
		ExpiresAt:      2000,
	}
}

func TestShareLinkRepoLifecycle(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	links := repo.NewShareLinkRepo(db)
	ctx := context.Background()

	link := newTestLink("tok-1", "owner-1")
	require.NoError(t, links.Create(ctx, link))
	require.ErrorIs(t, links.Create(ctx, link), appErr.ErrConflict)

	fetched, err := links.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, link.OwnerID, fetched.OwnerID)
	require.Equal(t, link.Filter, fetched.Filter)
	require.Equal(t, link.VisibleColumns, fetched.VisibleColumns)
	require.Equal(t, link.AllowedEmails, fetched.AllowedEmails)
	require.EqualValues(t, 0, fetched.ViewCount)

	_, err = links.GetByToken(ctx, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	fetched.Name = "renamed"
	fetched.ExpiresAt = 9000
	fetched.AllowedEmails = []string{"a@x.com", "b@x.com"}
	require.NoError(t, links.Update(ctx, fetched))

	updated, err := links.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)
	require.EqualValues(t, 9000, updated.ExpiresAt)
	require.Equal(t, []string{"a@x.com", "b@x.com"}, updated.AllowedEmails)
	// creation time survives reconfiguration
	require.EqualValues(t, 1000, updated.Ctime)

	require.NoError(t, links.Revoke(ctx, "tok-1", "owner-1"))
	revoked, err := links.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, model.LinkStateRevoked, revoked.Active)

	// revoking again is a silent success
	require.NoError(t, links.Revoke(ctx, "tok-1", "owner-1"))
}

func TestShareLinkRepoListByOwner(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	links := repo.NewShareLinkRepo(db)
	ctx := context.Background()

	require.NoError(t, links.Create(ctx, newTestLink("tok-a", "owner-1")))
	require.NoError(t, links.Create(ctx, newTestLink("tok-b", "owner-1")))
	require.NoError(t, links.Create(ctx, newTestLink("tok-c", "owner-2")))

	items, err := links.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = links.ListByOwner(ctx, "owner-3")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestShareLinkRepoViewCountConcurrent(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	links := repo.NewShareLinkRepo(db)
	ctx := context.Background()
	require.NoError(t, links.Create(ctx, newTestLink("tok-1", "owner-1")))

	const viewers = 32
	var wg sync.WaitGroup
	errs := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := links.IncrementViewCount(ctx, "tok-1"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	link, err := links.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.EqualValues(t, viewers, link.ViewCount)
}
