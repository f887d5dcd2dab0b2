package exporter_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/model"
)

func sampleSnapshot() *model.Snapshot {
	created := time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)
	return &model.Snapshot{
		Folders: []model.Folder{
			{ID: 1, Name: "Wishlist", CreatedAt: created},
			{ID: 2, Name: "Played", CreatedAt: created},
		},
		Items: []model.Item{
			{ID: 1, FolderID: 1, GameID: "g2", SortOrder: 2, CreatedAt: created},
			{ID: 2, FolderID: 1, GameID: "g1", SortOrder: 1, CreatedAt: created},
			{ID: 3, FolderID: 1, GameID: "g3", Deleted: true, CreatedAt: created},
			{ID: 4, FolderID: 2, GameID: "g4", SortOrder: 1, CreatedAt: created},
		},
	}
}

func TestExport(t *testing.T) {
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.Local)
	doc := exporter.Export(sampleSnapshot(), model.Settings{"locale": "de"}, now)

	assert.Equal(t, doc.Version, model.DocumentVersion)
	assert.Assert(t, doc.ID != "")
	assert.Equal(t, doc.ExportedAt, "2025-02-01 09:00:00")
	assert.Equal(t, doc.Settings["locale"], "de")

	assert.DeepEqual(t, doc.Folders, []model.FolderRecord{
		{Name: "Wishlist", CreatedAt: "2025-01-15 10:30:00"},
		{Name: "Played", CreatedAt: "2025-01-15 10:30:00"},
	})

	var rows []string
	for _, r := range doc.Collection {
		rows = append(rows, r.FolderID+"/"+r.GameID)
	}
	assert.DeepEqual(t, rows, []string{"Wishlist/g1", "Wishlist/g2", "Wishlist/g3", "Played/g4"})
	assert.Assert(t, doc.Collection[2].Deleted)
	assert.NilError(t, doc.Validate())
}

func TestExport_EmptyStoreIsValid(t *testing.T) {
	doc := exporter.Export(model.NewSnapshot(), model.Settings{}, time.Now())

	assert.Equal(t, len(doc.Folders), 0)
	assert.Equal(t, len(doc.Collection), 0)
	assert.NilError(t, doc.Validate())
}

func TestExport_UniqueIDs(t *testing.T) {
	a := exporter.Export(model.NewSnapshot(), nil, time.Now())
	b := exporter.Export(model.NewSnapshot(), nil, time.Now())
	assert.Assert(t, a.ID != b.ID)
}

func TestEncode_JSON(t *testing.T) {
	doc := exporter.Export(sampleSnapshot(), model.Settings{"locale": "en"}, time.Now())

	var buf bytes.Buffer
	assert.NilError(t, exporter.Encode(&buf, doc, exporter.FormatJSON))

	var raw map[string]any
	assert.NilError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{"version", "id", "exportedAt", "settings", "folders", "collection"} {
		_, ok := raw[key]
		assert.Assert(t, ok, "missing key %q", key)
	}
	first := raw["collection"].([]any)[0].(map[string]any)
	assert.Equal(t, first["folderId"], "Wishlist")
	assert.Equal(t, first["gameId"], "g1")
}

func TestEncode_YAML(t *testing.T) {
	doc := exporter.Export(sampleSnapshot(), model.Settings{}, time.Now())

	var buf bytes.Buffer
	assert.NilError(t, exporter.Encode(&buf, doc, exporter.FormatYAML))

	out := buf.String()
	assert.Assert(t, strings.Contains(out, "version: \"2\""), out)
	assert.Assert(t, strings.Contains(out, "gameId: g4"), out)
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want exporter.Format
	}{
		{path: "out.json", want: exporter.FormatJSON},
		{path: "out.yaml", want: exporter.FormatYAML},
		{path: "OUT.YML", want: exporter.FormatYAML},
		{path: "out", want: exporter.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, exporter.FormatForPath(tt.path), tt.want)
		})
	}
}
