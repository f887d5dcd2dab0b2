package collection

import (
	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// insert appends a new item for params.GameID, or restores the game's
// trashed item instead of creating a second record.
func insert(tx *storage.Tx, params model.NewItemParams) (model.Item, error) {
	if _, err := tx.GetFolder(params.FolderID); err != nil {
		return model.Item{}, err
	}

	existing, err := tx.ItemsByIndex(storage.IndexGame, params.GameID)
	if err != nil {
		return model.Item{}, err
	}
	for _, it := range existing {
		if it.Active() {
			return model.Item{}, apperr.ErrDuplicateMembership.WithMessage(
				"game %q is already in folder %d", params.GameID, it.FolderID)
		}
	}
	if len(existing) > 0 {
		return restore(tx, existing[len(existing)-1])
	}

	active, err := activeInFolder(tx, params.FolderID)
	if err != nil {
		return model.Item{}, err
	}
	maxOrder := 0
	for _, it := range active {
		maxOrder = max(maxOrder, it.SortOrder)
	}

	item := model.NewItem(params)
	item.SortOrder = maxOrder + 1
	if _, err := tx.PutItem(&item); err != nil {
		return model.Item{}, err
	}
	return item, verifyFolders(tx, item.FolderID)
}

// restore appends a trashed item to the end of its folder.
func restore(tx *storage.Tx, item model.Item) (model.Item, error) {
	if item.Active() {
		return item, nil
	}

	active, err := activeInFolder(tx, item.FolderID)
	if err != nil {
		return model.Item{}, err
	}

	item.Deleted = false
	item.SortOrder = len(active) + 1
	if _, err := tx.PutItem(&item); err != nil {
		return model.Item{}, err
	}
	return item, verifyFolders(tx, item.FolderID)
}

// trash soft-deletes an active item and closes the gap it leaves.
func trash(tx *storage.Tx, item model.Item) error {
	oldOrder := item.SortOrder
	item.Deleted = true
	item.SortOrder = model.NoOrder
	if _, err := tx.PutItem(&item); err != nil {
		return err
	}

	if err := closeGap(tx, item.FolderID, oldOrder); err != nil {
		return err
	}
	return verifyFolders(tx, item.FolderID)
}

// closeGap shifts every active item after removed up by one.
func closeGap(tx *storage.Tx, folderID int64, removed int) error {
	items, err := activeInFolder(tx, folderID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.SortOrder <= removed {
			continue
		}
		it.SortOrder--
		if _, err := tx.PutItem(&it); err != nil {
			return err
		}
	}
	return nil
}

func getActive(tx *storage.Tx, itemID int64) (model.Item, error) {
	item, err := tx.GetItem(itemID)
	if err != nil {
		return model.Item{}, err
	}
	if item.Deleted {
		return model.Item{}, apperr.ErrNotFound.WithMessage("item %d is in the trash", itemID)
	}
	return item, nil
}

// activeInFolder returns the folder's active items ordered by SortOrder.
func activeInFolder(tx *storage.Tx, folderID int64) ([]model.Item, error) {
	return filterFolder(tx, folderID, false)
}

func trashedInFolder(tx *storage.Tx, folderID int64) ([]model.Item, error) {
	return filterFolder(tx, folderID, true)
}

func filterFolder(tx *storage.Tx, folderID int64, deleted bool) ([]model.Item, error) {
	items, err := tx.ItemsByIndex(storage.IndexFolder, folderID)
	if err != nil {
		return nil, err
	}

	result := []model.Item{}
	for _, it := range items {
		if it.Deleted == deleted {
			result = append(result, it)
		}
	}
	return result, nil
}

// verifyFolders re-reads each folder and fails the transaction when its
// active items are not numbered 1..n.
func verifyFolders(tx *storage.Tx, folderIDs ...int64) error {
	for _, id := range folderIDs {
		items, err := activeInFolder(tx, id)
		if err != nil {
			return err
		}
		if err := checkContiguous(id, items); err != nil {
			return err
		}
	}
	return nil
}

// checkContiguous expects items sorted by SortOrder.
func checkContiguous(folderID int64, items []model.Item) error {
	for i, it := range items {
		if it.SortOrder != i+1 {
			return apperr.ErrInvariant.WithMessage(
				"folder %d: item %d has sort order %d, expected %d", folderID, it.ID, it.SortOrder, i+1)
		}
	}
	return nil
}
