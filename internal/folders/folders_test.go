package folders_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/collection"
	"github.com/nikbrunner/shelf/internal/folders"
	"github.com/nikbrunner/shelf/internal/storage"
)

func setup(t *testing.T) (*folders.Manager, *collection.Manager) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "shelf.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return folders.NewManager(db), collection.NewManager(db)
}

func TestCreateFolder(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	first, err := fm.CreateFolder(ctx, "Wishlist")
	assert.NilError(t, err)
	second, err := fm.CreateFolder(ctx, "  Played  ")
	assert.NilError(t, err)
	assert.Assert(t, second > first)

	f, err := fm.GetFolder(ctx, second)
	assert.NilError(t, err)
	assert.Equal(t, f.Name, "Played")
	assert.Assert(t, !f.CreatedAt.IsZero())
}

func TestCreateFolder_DuplicateNamesAllowed(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	a, err := fm.CreateFolder(ctx, "Same")
	assert.NilError(t, err)
	b, err := fm.CreateFolder(ctx, "Same")
	assert.NilError(t, err)
	assert.Assert(t, a != b)

	list, err := fm.ListFolders(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(list), 2)
}

func TestCreateFolder_InvalidName(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "blank", input: "   "},
		{name: "too long", input: strings.Repeat("x", folders.MaxNameLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fm.CreateFolder(ctx, tt.input)
			assert.Assert(t, errors.Is(err, apperr.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestRenameFolder(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	id, err := fm.CreateFolder(ctx, "Old")
	assert.NilError(t, err)
	before, err := fm.GetFolder(ctx, id)
	assert.NilError(t, err)

	assert.NilError(t, fm.RenameFolder(ctx, id, "New"))

	after, err := fm.GetFolder(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, after.Name, "New")
	assert.Assert(t, after.CreatedAt.Equal(before.CreatedAt))

	err = fm.RenameFolder(ctx, 99, "Nope")
	assert.Assert(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListFolders_CreationOrder(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	for _, name := range []string{"C", "A", "B"} {
		_, err := fm.CreateFolder(ctx, name)
		assert.NilError(t, err)
	}

	list, err := fm.ListFolders(ctx)
	assert.NilError(t, err)
	names := []string{}
	for _, f := range list {
		names = append(names, f.Name)
	}
	assert.DeepEqual(t, names, []string{"C", "A", "B"})
}

func TestFindByName(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	id, err := fm.CreateFolder(ctx, "Wishlist")
	assert.NilError(t, err)

	f, ok, err := fm.FindByName(ctx, "Wishlist")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, f.ID, id)

	_, ok, err = fm.FindByName(ctx, "wishlist")
	assert.NilError(t, err)
	assert.Assert(t, !ok)
}

func TestDeleteFolder_RemovesActiveAndTrashedItems(t *testing.T) {
	ctx := context.Background()
	fm, cm := setup(t)

	keep, err := fm.CreateFolder(ctx, "Keep")
	assert.NilError(t, err)
	gone, err := fm.CreateFolder(ctx, "Gone")
	assert.NilError(t, err)

	_, err = cm.Add(ctx, keep, "k1")
	assert.NilError(t, err)
	var trashedID int64
	for _, g := range []string{"g1", "g2", "g3"} {
		it, err := cm.Add(ctx, gone, g)
		assert.NilError(t, err)
		trashedID = it.ID
	}
	assert.NilError(t, cm.SoftDelete(ctx, trashedID))

	removed, err := fm.DeleteFolder(ctx, gone)
	assert.NilError(t, err)
	assert.Equal(t, removed, 3)

	_, err = fm.GetFolder(ctx, gone)
	assert.Assert(t, errors.Is(err, apperr.ErrNotFound))

	snap, err := cm.Snapshot(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(snap.Items), 1)
	assert.Equal(t, snap.Items[0].GameID, "k1")

	// games of the deleted folder can be added again
	_, err = cm.Add(ctx, keep, "g1")
	assert.NilError(t, err)
	assert.NilError(t, cm.Verify(ctx))
}

func TestDeleteFolder_FirstFolderIsProtected(t *testing.T) {
	ctx := context.Background()
	fm, cm := setup(t)

	first, err := fm.CreateFolder(ctx, "Default")
	assert.NilError(t, err)
	second, err := fm.CreateFolder(ctx, "Other")
	assert.NilError(t, err)
	_, err = cm.Add(ctx, first, "g1")
	assert.NilError(t, err)

	_, err = fm.DeleteFolder(ctx, first)
	assert.Assert(t, errors.Is(err, apperr.ErrProtectedFolder), "got %v", err)

	count, err := cm.CountActive(ctx, first)
	assert.NilError(t, err)
	assert.Equal(t, count, 1)

	// once it is the only folder it may go
	_, err = fm.DeleteFolder(ctx, second)
	assert.NilError(t, err)
	removed, err := fm.DeleteFolder(ctx, first)
	assert.NilError(t, err)
	assert.Equal(t, removed, 1)
}

func TestDeleteFolder_Missing(t *testing.T) {
	fm, _ := setup(t)

	_, err := fm.DeleteFolder(context.Background(), 5)
	assert.Assert(t, errors.Is(err, apperr.ErrNotFound))
}

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()
	fm, _ := setup(t)

	seeded, err := fm.EnsureDefaults(ctx, []string{"Favorites", "Wishlist"})
	assert.NilError(t, err)
	assert.Equal(t, len(seeded), 2)
	assert.Equal(t, seeded[0].ID, int64(1))
	assert.Equal(t, seeded[1].Name, "Wishlist")

	again, err := fm.EnsureDefaults(ctx, []string{"Other"})
	assert.NilError(t, err)
	assert.Equal(t, len(again), 2)
	assert.Equal(t, again[0].Name, "Favorites")
}
