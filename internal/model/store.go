package model

import "sort"

// Snapshot holds every folder and item read in one transaction.
type Snapshot struct {
	Folders []Folder `json:"folders"`
	Items   []Item   `json:"items"`
}

// NewSnapshot creates an empty Snapshot with initialized slices.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Folders: []Folder{},
		Items:   []Item{},
	}
}

// GetFolderByID finds a folder by ID, returns nil if not found.
func (s *Snapshot) GetFolderByID(id int64) *Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// GetItemByID finds an item by ID, returns nil if not found.
func (s *Snapshot) GetItemByID(id int64) *Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// GetItemsInFolder returns every item of the folder, trashed ones included,
// active items first by SortOrder, then trashed items by ID.
func (s *Snapshot) GetItemsInFolder(folderID int64) []Item {
	var result []Item
	for _, it := range s.Items {
		if it.FolderID == folderID {
			result = append(result, it)
		}
	}
	SortItems(result)
	return result
}

// GetActiveItemsInFolder returns the folder's active items by SortOrder.
func (s *Snapshot) GetActiveItemsInFolder(folderID int64) []Item {
	var result []Item
	for _, it := range s.Items {
		if it.FolderID == folderID && it.Active() {
			result = append(result, it)
		}
	}
	SortItems(result)
	return result
}

// GetActiveItemByGame returns the active item for gameID, nil if none.
func (s *Snapshot) GetActiveItemByGame(gameID string) *Item {
	for i := range s.Items {
		if s.Items[i].GameID == gameID && s.Items[i].Active() {
			return &s.Items[i]
		}
	}
	return nil
}

// SortItems orders items active-first by SortOrder, then trashed by ID.
func SortItems(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		x, y := items[a], items[b]
		if x.Deleted != y.Deleted {
			return !x.Deleted
		}
		if !x.Deleted && x.SortOrder != y.SortOrder {
			return x.SortOrder < y.SortOrder
		}
		return x.ID < y.ID
	})
}
