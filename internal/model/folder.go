package model

import "time"

// MaxFolderNameLength bounds folder names, counted in runes after trimming.
const MaxFolderNameLength = 200

// Folder is a named container for collection items.
type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name      string
	CreatedAt time.Time // zero = now
}

// NewFolder creates an unsaved Folder. The store assigns the ID.
func NewFolder(params NewFolderParams) Folder {
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Folder{
		Name:      params.Name,
		CreatedAt: NormalizeTime(createdAt),
	}
}
