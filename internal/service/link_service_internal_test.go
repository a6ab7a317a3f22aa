package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shareview/shareview/internal/model"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
)

func TestNormalizeLinkInputRejectsBadDuration(t *testing.T) {
	_, err := normalizeLinkInput(LinkInput{DurationHours: 0})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = normalizeLinkInput(LinkInput{DurationHours: -1})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestNormalizeLinkInputRejectsUnknownColumn(t *testing.T) {
	_, err := normalizeLinkInput(LinkInput{
		DurationHours:  1,
		VisibleColumns: []string{"id", "password_hash"},
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestNormalizeLinkInputRejectsBadEmail(t *testing.T) {
	_, err := normalizeLinkInput(LinkInput{
		DurationHours: 1,
		AllowedEmails: []string{"not-an-email"},
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestNormalizeLinkInputNormalizes(t *testing.T) {
	normalized, err := normalizeLinkInput(LinkInput{
		Name:           "  quarterly view ",
		DurationHours:  24,
		VisibleColumns: []string{" ID ", "Name", ""},
		AllowedEmails:  []string{" A@X.com ", "a@x.com", "b@x.com"},
	})
	require.NoError(t, err)
	require.Equal(t, "quarterly view", normalized.Name)
	require.Equal(t, []string{"id", "name"}, normalized.VisibleColumns)
	require.Equal(t, []string{"a@x.com", "b@x.com"}, normalized.AllowedEmails)
}

func TestProjectRecordStripsEverythingElse(t *testing.T) {
	record := &model.Record{
		ID:          "rec-1",
		Name:        "alpha",
		Description: "secret description",
		CategoryID:  7,
		MediaTypeID: 3,
		StatusID:    1,
		Ctime:       100,
		Mtime:       200,
	}
	row := projectRecord(record, []string{"id", "name"})
	require.Equal(t, map[string]interface{}{"id": "rec-1", "name": "alpha"}, row)
}

func TestProjectRecordFullColumnSet(t *testing.T) {
	record := &model.Record{ID: "rec-1", Name: "alpha", CategoryID: 7, Ctime: 100, Mtime: 200}
	row := projectRecord(record, model.RecordColumns)
	require.Len(t, row, len(model.RecordColumns))
	require.Equal(t, int64(7), row["category_id"])
}
