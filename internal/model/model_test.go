package model_test

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/model"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	in := time.Date(2025, 1, 15, 10, 30, 45, 123456789, time.Local)

	s := model.FormatTimestamp(in)
	assert.Equal(t, s, "2025-01-15 10:30:45")

	out, err := model.ParseTimestamp(s)
	assert.NilError(t, err)
	assert.Assert(t, out.Equal(model.NormalizeTime(in)))
}

func TestParseTimestamp_RejectsOtherLayouts(t *testing.T) {
	_, err := model.ParseTimestamp("2025-01-15T10:30:45Z")
	assert.Assert(t, err != nil)
}

func TestNewItem(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local)
	it := model.NewItem(model.NewItemParams{FolderID: 2, GameID: "g1", CreatedAt: created})

	assert.Equal(t, it.ID, int64(0))
	assert.Equal(t, it.FolderID, int64(2))
	assert.Equal(t, it.SortOrder, model.NoOrder)
	assert.Assert(t, it.Active())
	assert.Assert(t, it.CreatedAt.Equal(created))
}

func TestNewFolder_DefaultsCreatedAt(t *testing.T) {
	f := model.NewFolder(model.NewFolderParams{Name: "Wishlist"})

	assert.Equal(t, f.Name, "Wishlist")
	assert.Assert(t, !f.CreatedAt.IsZero())
	assert.Equal(t, f.CreatedAt.Nanosecond(), 0)
}

func TestSnapshot_GetItemsInFolder(t *testing.T) {
	snap := model.Snapshot{
		Folders: []model.Folder{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		Items: []model.Item{
			{ID: 1, FolderID: 1, GameID: "g1", SortOrder: 2},
			{ID: 2, FolderID: 1, GameID: "g2", Deleted: true},
			{ID: 3, FolderID: 1, GameID: "g3", SortOrder: 1},
			{ID: 4, FolderID: 2, GameID: "g4", SortOrder: 1},
		},
	}

	all := snap.GetItemsInFolder(1)
	assert.Equal(t, len(all), 3)
	assert.Equal(t, all[0].GameID, "g3")
	assert.Equal(t, all[1].GameID, "g1")
	assert.Equal(t, all[2].GameID, "g2")

	active := snap.GetActiveItemsInFolder(1)
	assert.Equal(t, len(active), 2)

	assert.Assert(t, snap.GetActiveItemByGame("g2") == nil)
	assert.Equal(t, snap.GetActiveItemByGame("g4").FolderID, int64(2))
	assert.Assert(t, snap.GetFolderByID(3) == nil)
	assert.Equal(t, snap.GetItemByID(4).GameID, "g4")
}

func TestSettings_Merge(t *testing.T) {
	defaults := model.Settings{"locale": "en", "theme": "system"}
	stored := model.Settings{"locale": "de", "extra": 1}

	merged := defaults.Merge(stored)

	assert.DeepEqual(t, merged, model.Settings{"locale": "de", "theme": "system", "extra": 1})
	assert.Equal(t, defaults["locale"], "en")
}

func TestDocument_Validate(t *testing.T) {
	valid := model.Document{
		Version:    "2",
		Folders:    []model.FolderRecord{{Name: "A", CreatedAt: "2025-01-15 10:30:00"}},
		Collection: []model.ItemRecord{{FolderID: "A", GameID: "g1", SortOrder: 1}},
	}

	tests := []struct {
		name    string
		mutate  func(d *model.Document)
		wantErr bool
	}{
		{name: "valid", mutate: func(d *model.Document) {}},
		{name: "empty lists are fine", mutate: func(d *model.Document) {
			d.Folders = []model.FolderRecord{}
			d.Collection = []model.ItemRecord{}
		}},
		{name: "missing version", mutate: func(d *model.Document) { d.Version = "" }, wantErr: true},
		{name: "missing folders", mutate: func(d *model.Document) { d.Folders = nil }, wantErr: true},
		{name: "missing collection", mutate: func(d *model.Document) { d.Collection = nil }, wantErr: true},
		{name: "row without game", mutate: func(d *model.Document) {
			d.Collection = []model.ItemRecord{{FolderID: "A"}}
		}, wantErr: true},
		{name: "folder with bad date", mutate: func(d *model.Document) {
			d.Folders = []model.FolderRecord{{Name: "A", CreatedAt: "yesterday"}}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid
			doc.Folders = append([]model.FolderRecord(nil), valid.Folders...)
			doc.Collection = append([]model.ItemRecord(nil), valid.Collection...)
			tt.mutate(&doc)

			err := doc.Validate()
			if tt.wantErr {
				assert.Assert(t, err != nil)
			} else {
				assert.NilError(t, err)
			}
		})
	}
}
