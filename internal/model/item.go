package model

import "time"

// NoOrder is the SortOrder of a trashed item.
const NoOrder = 0

// Item places one catalog entry (GameID) in one folder.
type Item struct {
	ID        int64     `json:"id"`
	FolderID  int64     `json:"folderId"`
	GameID    string    `json:"gameId"`
	SortOrder int       `json:"sortOrder"` // 1-based among active items; NoOrder when deleted
	CreatedAt time.Time `json:"createdAt"`
	Deleted   bool      `json:"deleted"`
}

// Active reports whether the item is not in the trash.
func (i Item) Active() bool {
	return !i.Deleted
}

// NewItemParams holds parameters for creating a new Item.
type NewItemParams struct {
	FolderID  int64
	GameID    string
	CreatedAt time.Time // zero = now
}

// NewItem creates an unsaved active Item. The caller assigns SortOrder.
func NewItem(params NewItemParams) Item {
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Item{
		FolderID:  params.FolderID,
		GameID:    params.GameID,
		SortOrder: NoOrder,
		CreatedAt: NormalizeTime(createdAt),
	}
}
