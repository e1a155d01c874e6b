package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSaveAndGetDraft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d := &Draft{Subject: "hi", HTML: "<div>Hello</div>", Text: "Hello"}
	require.NoError(t, s.SaveDraft(ctx, d))
	require.NotEmpty(t, d.ID)

	got, err := s.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Subject)
	assert.Equal(t, "<div>Hello</div>", got.HTML)
	assert.Equal(t, "Hello", got.Text)
	assert.WithinDuration(t, d.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestSaveDraftUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d := &Draft{HTML: "<div>one</div>"}
	require.NoError(t, s.SaveDraft(ctx, d))
	created := d.CreatedAt

	d.HTML = "<div>two</div>"
	require.NoError(t, s.SaveDraft(ctx, d))
	assert.Equal(t, created, d.CreatedAt)
	assert.True(t, d.UpdatedAt.After(created))

	all, err := s.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "<div>two</div>", all[0].HTML)
}

func TestLatestDraft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LatestDraft(ctx)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	first := &Draft{HTML: "<div>a</div>"}
	second := &Draft{HTML: "<div>b</div>"}
	require.NoError(t, s.SaveDraft(ctx, first))
	require.NoError(t, s.SaveDraft(ctx, second))

	got, err := s.LatestDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	require.NoError(t, s.SaveDraft(ctx, first))
	got, err = s.LatestDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestDeleteDraft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d := &Draft{HTML: "<div>x</div>"}
	require.NoError(t, s.SaveDraft(ctx, d))
	require.NoError(t, s.DeleteDraft(ctx, d.ID))

	_, err := s.GetDraft(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, s.DeleteDraft(ctx, d.ID), ErrDraftNotFound)
}

func TestReopenKeepsDrafts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "drafts.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	d := &Draft{HTML: "<div>kept</div>"}
	require.NoError(t, s.SaveDraft(ctx, d))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "<div>kept</div>", got.HTML)
}
