package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shareview/shareview/internal/model"
	"github.com/shareview/shareview/internal/repo"
	"github.com/shareview/shareview/internal/testutil"
)

func seedRecords(t *testing.T, records *repo.RecordRepo) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, records.Create(ctx, &model.Record{
			ID:          fmt.Sprintf("cat7-%d", i),
			Name:        fmt.Sprintf("alpha item %d", i),
			Description: "category seven",
			CategoryID:  7,
			MediaTypeID: 1,
			StatusID:    1,
			Ctime:       int64(1000 + i),
			Mtime:       int64(1000 + i),
		}))
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, records.Create(ctx, &model.Record{
			ID:          fmt.Sprintf("cat8-%d", i),
			Name:        fmt.Sprintf("beta item %d", i),
			Description: "category eight",
			CategoryID:  8,
			MediaTypeID: 2,
			StatusID:    1,
			Ctime:       int64(2000 + i),
			Mtime:       int64(2000 + i),
		}))
	}
}

func TestRecordRepoPageFiltersAndCounts(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	records := repo.NewRecordRepo(db)
	seedRecords(t, records)
	ctx := context.Background()

	rows, total, err := records.Page(ctx, model.FilterSpec{CategoryID: 7}, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, rows, 5)
	for _, row := range rows {
		require.EqualValues(t, 7, row.CategoryID)
	}

	rows, total, err = records.Page(ctx, model.FilterSpec{}, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 8, total)
	require.Len(t, rows, 8)
}

func TestRecordRepoPagePagination(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	records := repo.NewRecordRepo(db)
	seedRecords(t, records)
	ctx := context.Background()

	rows, total, err := records.Page(ctx, model.FilterSpec{CategoryID: 7}, "", 2, 0)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, rows, 2)
	// newest first
	require.Equal(t, "cat7-5", rows[0].ID)

	rows, _, err = records.Page(ctx, model.FilterSpec{CategoryID: 7}, "", 2, 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestRecordRepoPageSearchNarrowsWithinFilter(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	records := repo.NewRecordRepo(db)
	seedRecords(t, records)
	ctx := context.Background()

	// "beta" only exists in category 8; inside category 7 it matches nothing
	rows, total, err := records.Page(ctx, model.FilterSpec{CategoryID: 7}, "beta", 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, rows)

	rows, total, err = records.Page(ctx, model.FilterSpec{CategoryID: 7}, "alpha item 3", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "cat7-3", rows[0].ID)
}
