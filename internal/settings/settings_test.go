package settings_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/settings"
	"github.com/nikbrunner/shelf/internal/storage"
)

func openStore(t *testing.T) (*storage.DB, *settings.Store) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "shelf.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, settings.NewStore(db)
}

func TestLoad_DefaultsWhenEmpty(t *testing.T) {
	_, store := openStore(t)

	got, err := store.Load(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, got, settings.Defaults())
}

func TestSave_MergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	_, store := openStore(t)

	assert.NilError(t, store.Save(ctx, model.Settings{"locale": "de", "custom": "x"}))

	got, err := store.Load(ctx)
	assert.NilError(t, err)
	assert.Equal(t, got["locale"], "de")
	assert.Equal(t, got["custom"], "x")
	assert.Equal(t, got["currency"], "USD")
}

func TestSave_ReplacesRecord(t *testing.T) {
	ctx := context.Background()
	_, store := openStore(t)

	assert.NilError(t, store.Save(ctx, model.Settings{"custom": "x"}))
	assert.NilError(t, store.Save(ctx, model.Settings{"locale": "fr"}))

	got, err := store.Load(ctx)
	assert.NilError(t, err)
	_, ok := got["custom"]
	assert.Assert(t, !ok)
	assert.Equal(t, got["locale"], "fr")
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	_, store := openStore(t)

	assert.NilError(t, store.Save(ctx, model.Settings{"locale": "de"}))
	defaults, err := store.Reset(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, defaults, settings.Defaults())

	got, err := store.Load(ctx)
	assert.NilError(t, err)
	assert.Equal(t, got["locale"], "en")
}

func TestDecode(t *testing.T) {
	prefs, err := settings.Decode(model.Settings{
		"locale":        "de",
		"confirmDelete": "false",
		"unknown":       42,
	})
	assert.NilError(t, err)
	assert.Equal(t, prefs.Locale, "de")
	assert.Equal(t, prefs.ConfirmDelete, false)

	prefs, err = settings.Decode(settings.Defaults())
	assert.NilError(t, err)
	assert.DeepEqual(t, prefs, settings.Preferences{
		Locale:        "en",
		Currency:      "USD",
		SortBy:        "title",
		SortDir:       "asc",
		Theme:         "system",
		ConfirmDelete: true,
	})
}

func TestFactoryReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.db")
	db, err := storage.Open(path)
	assert.NilError(t, err)
	assert.NilError(t, settings.NewStore(db).Save(context.Background(), model.Settings{"locale": "de"}))

	defaults, err := settings.FactoryReset(db)
	assert.NilError(t, err)
	assert.DeepEqual(t, defaults, settings.Defaults())

	_, err = os.Stat(path)
	assert.Assert(t, errors.Is(err, os.ErrNotExist))

	db, err = storage.Open(path)
	assert.NilError(t, err)
	defer db.Close()
	got, err := settings.NewStore(db).Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, got["locale"], "en")
}

func TestFactoryReset_BlockedByOtherConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.db")
	db, err := storage.Open(path)
	assert.NilError(t, err)
	other, err := storage.Open(path)
	assert.NilError(t, err)
	defer other.Close()

	_, err = settings.FactoryReset(db)
	assert.Assert(t, errors.Is(err, apperr.ErrStorageFault), "got %v", err)
	assert.NilError(t, db.Close())
}
