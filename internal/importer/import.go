package importer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/collection"
	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/folders"
	"github.com/nikbrunner/shelf/internal/logger"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/settings"
)

// Result reports what an import did.
type Result struct {
	Imported       int `json:"importedCount"`
	Skipped        int `json:"skippedCount"`
	FoldersCreated int `json:"foldersCreated"`
}

// Parse decodes and validates a document. Any failure is reported as
// apperr.ErrInvalidDocument.
func Parse(r io.Reader, format exporter.Format) (model.Document, error) {
	var doc model.Document

	var err error
	switch format {
	case exporter.FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil {
		return model.Document{}, apperr.ErrInvalidDocument.WithInternal(err)
	}

	if err := doc.Validate(); err != nil {
		return model.Document{}, apperr.ErrInvalidDocument.WithInternal(err)
	}
	return doc, nil
}

// Importer merges documents into the local collection.
type Importer struct {
	folders  *folders.Manager
	items    *collection.Manager
	settings *settings.Store
	log      *zap.Logger
}

// New creates an Importer.
func New(f *folders.Manager, c *collection.Manager, s *settings.Store) *Importer {
	return &Importer{
		folders:  f,
		items:    c,
		settings: s,
		log:      logger.WithModule("importer"),
	}
}

// Import merges doc into the store. Folders are matched by exact name and
// created when missing. A row whose game is already in the collection is
// skipped, never overwritten; every other row is appended to its folder.
// Document settings are merged on top of the current ones.
func (im *Importer) Import(ctx context.Context, doc model.Document) (Result, error) {
	var res Result
	if err := doc.Validate(); err != nil {
		return res, apperr.ErrInvalidDocument.WithInternal(err)
	}

	existing, err := im.folders.ListFolders(ctx)
	if err != nil {
		return res, err
	}
	folderIDs := map[string]int64{}
	for _, f := range existing {
		if _, ok := folderIDs[f.Name]; !ok {
			folderIDs[f.Name] = f.ID
		}
	}

	resolve := func(name, createdAt string) (int64, error) {
		name = strings.TrimSpace(name)
		if id, ok := folderIDs[name]; ok {
			return id, nil
		}
		ts, _ := model.ParseTimestamp(createdAt)
		f, err := im.folders.Create(ctx, model.NewFolderParams{Name: name, CreatedAt: ts})
		if err != nil {
			return 0, err
		}
		folderIDs[name] = f.ID
		res.FoldersCreated++
		return f.ID, nil
	}

	for _, rec := range doc.Folders {
		if _, err := resolve(rec.Name, rec.CreatedAt); err != nil {
			return res, err
		}
	}

	// Appending in document order per folder keeps the exported sequence.
	rows := append([]model.ItemRecord(nil), doc.Collection...)
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Deleted != rows[b].Deleted {
			return !rows[a].Deleted
		}
		return rows[a].SortOrder < rows[b].SortOrder
	})

	for _, row := range rows {
		folderID, err := resolve(row.FolderID, "")
		if err != nil {
			return res, err
		}

		imported, err := im.importRow(ctx, folderID, row)
		if err != nil {
			return res, err
		}
		if imported {
			res.Imported++
		} else {
			res.Skipped++
		}
	}

	if len(doc.Settings) > 0 {
		current, err := im.settings.Load(ctx)
		if err != nil {
			return res, err
		}
		if err := im.settings.Save(ctx, current.Merge(doc.Settings)); err != nil {
			return res, err
		}
	}

	im.log.Info("import finished",
		zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped),
		zap.Int("foldersCreated", res.FoldersCreated))
	return res, nil
}

func (im *Importer) importRow(ctx context.Context, folderID int64, row model.ItemRecord) (bool, error) {
	ts, _ := model.ParseTimestamp(row.CreatedAt)
	params := model.NewItemParams{FolderID: folderID, GameID: row.GameID, CreatedAt: ts}

	if row.Deleted {
		_, err := im.items.InsertTrashed(ctx, params)
		if errors.Is(err, apperr.ErrDuplicateMembership) {
			return false, nil
		}
		return err == nil, err
	}

	if _, found, err := im.items.FindActive(ctx, row.GameID); err != nil || found {
		return false, err
	}
	_, err := im.items.Insert(ctx, params)
	if errors.Is(err, apperr.ErrDuplicateMembership) {
		return false, nil
	}
	return err == nil, err
}
