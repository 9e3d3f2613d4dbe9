package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewsync/internal/repository"
)

func TestSetGetDelete(t *testing.T) {
	repo := NewPreferenceRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "p", json.RawMessage(`{"type":"grid"}`)))

	pref, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"grid"}`, string(pref.Value))
	assert.NotEmpty(t, pref.Revision)

	pref.Value[0] = 'x'
	again, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"grid"}`, string(again.Value), "returned values must not alias storage")

	require.NoError(t, repo.Delete(ctx, "p"))
	_, err = repo.Get(ctx, "p")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "p"), repository.ErrNotFound)
}

func TestSetNullDeletes(t *testing.T) {
	repo := NewPreferenceRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "p", json.RawMessage(`{}`)))
	require.NoError(t, repo.Set(ctx, "p", json.RawMessage(` null `)))

	_, err := repo.Get(ctx, "p")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "p", nil))
}

func TestSetRejectsInvalid(t *testing.T) {
	repo := NewPreferenceRepository()
	ctx := context.Background()

	assert.Error(t, repo.Set(ctx, "", json.RawMessage(`{}`)))
	assert.Error(t, repo.Set(ctx, "p", json.RawMessage(`{`)))
}

func TestListAndCount(t *testing.T) {
	repo := NewPreferenceRepository()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"b-sites", "a-sites", "c-domains"} {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		require.NoError(t, repo.Set(ctx, name, json.RawMessage(`{"type":"table"}`)))
	}

	prefs, err := repo.List(ctx, repository.PreferenceFilter{})
	require.NoError(t, err)
	require.Len(t, prefs, 3)
	assert.Equal(t, "a-sites", prefs[0].Name)

	prefs, err = repo.List(ctx, repository.PreferenceFilter{SearchQuery: "SITES", SortBy: "updated_at", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, "a-sites", prefs[0].Name)

	prefs, err = repo.List(ctx, repository.PreferenceFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "c-domains", prefs[0].Name)

	prefs, err = repo.List(ctx, repository.PreferenceFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, prefs)

	prefs, err = repo.List(ctx, repository.PreferenceFilter{Offset: 1})
	require.NoError(t, err)
	require.Len(t, prefs, 2, "offset applies without a limit")
	assert.Equal(t, "b-sites", prefs[0].Name)

	count, err := repo.Count(ctx, repository.PreferenceFilter{Prefix: "c-"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCanceledContext(t *testing.T) {
	repo := NewPreferenceRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Set(ctx, "p", json.RawMessage(`{}`)), context.Canceled)
}
