package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentVersion tags documents written by the exporter.
const DocumentVersion = "2"

// Document is the portable import/export form of a collection. Folders are
// referenced by name rather than ID so documents move between stores.
type Document struct {
	Version    string         `json:"version" yaml:"version"`
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	ExportedAt string         `json:"exportedAt,omitempty" yaml:"exportedAt,omitempty"`
	Settings   Settings       `json:"settings,omitempty" yaml:"settings,omitempty"`
	Folders    []FolderRecord `json:"folders" yaml:"folders"`
	Collection []ItemRecord   `json:"collection" yaml:"collection"`
}

// FolderRecord is a folder inside a Document.
type FolderRecord struct {
	Name      string `json:"name" yaml:"name"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

// ItemRecord is a collection row inside a Document. FolderID holds the
// folder name.
type ItemRecord struct {
	FolderID  string `json:"folderId" yaml:"folderId"`
	GameID    string `json:"gameId" yaml:"gameId"`
	SortOrder int    `json:"sortOrder" yaml:"sortOrder"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	Deleted   bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// Validate checks the fields an import cannot do without.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Version, validation.Required),
		validation.Field(&d.Folders, validation.NotNil),
		validation.Field(&d.Collection, validation.NotNil),
	)
}

// folderNameRules are the rules the folder manager applies to a trimmed name.
var folderNameRules = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, MaxFolderNameLength),
}

// Validate checks one folder record.
func (r FolderRecord) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, folderNameRules...),
		validation.Field(&r.CreatedAt, validation.Date(TimestampLayout)),
	)
}

// Validate checks one collection row.
func (r ItemRecord) Validate() error {
	r.FolderID = strings.TrimSpace(r.FolderID)
	return validation.ValidateStruct(&r,
		validation.Field(&r.FolderID, folderNameRules...),
		validation.Field(&r.GameID, validation.Required),
		validation.Field(&r.SortOrder, validation.Min(0)),
		validation.Field(&r.CreatedAt, validation.Date(TimestampLayout)),
	)
}
