package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/shelf/internal/model"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension; JSON unless the
// file ends in .yaml or .yml.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/shelf-export-YYYY-MM-DD.json
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("shelf-export-%s.json", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// Export builds a Document from a snapshot and the current settings.
// Items reference their folder by name; active items come first in each
// folder, followed by the folder's trash.
func Export(snap *model.Snapshot, settings model.Settings, now time.Time) model.Document {
	doc := model.Document{
		Version:    model.DocumentVersion,
		ID:         model.NewDocumentID(),
		ExportedAt: model.FormatTimestamp(now),
		Settings:   settings,
		Folders:    make([]model.FolderRecord, 0, len(snap.Folders)),
		Collection: make([]model.ItemRecord, 0, len(snap.Items)),
	}

	for _, folder := range snap.Folders {
		doc.Folders = append(doc.Folders, model.FolderRecord{
			Name:      folder.Name,
			CreatedAt: model.FormatTimestamp(folder.CreatedAt),
		})

		for _, it := range snap.GetItemsInFolder(folder.ID) {
			doc.Collection = append(doc.Collection, model.ItemRecord{
				FolderID:  folder.Name,
				GameID:    it.GameID,
				SortOrder: it.SortOrder,
				CreatedAt: model.FormatTimestamp(it.CreatedAt),
				Deleted:   it.Deleted,
			})
		}
	}

	return doc
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc model.Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}
