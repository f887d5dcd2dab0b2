// Package collection maintains the items placed in folders: their
// per-folder ordering, trash state and one-active-item-per-game rule.
//
// Every exported mutation runs as a single storage transaction. The store
// serializes transactions, so a read of the current order and the writes
// that depend on it can never interleave with another mutation.
package collection

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/logger"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// Manager owns every change to collection items.
type Manager struct {
	db  *storage.DB
	now func() time.Time
	log *zap.Logger
}

// NewManager creates a Manager backed by db.
func NewManager(db *storage.DB) *Manager {
	return &Manager{
		db:  db,
		now: time.Now,
		log: logger.WithModule("collection"),
	}
}

// Add puts gameID at the end of a folder. A game that is already active
// fails with apperr.ErrDuplicateMembership; a trashed one is restored.
func (m *Manager) Add(ctx context.Context, folderID int64, gameID string) (model.Item, error) {
	return m.Insert(ctx, model.NewItemParams{FolderID: folderID, GameID: gameID})
}

// Insert is Add with full control over the new item's fields.
func (m *Manager) Insert(ctx context.Context, params model.NewItemParams) (model.Item, error) {
	if params.GameID == "" {
		return model.Item{}, apperr.ErrInvalidArgument.WithMessage("game id is required")
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = m.now()
	}

	var item model.Item
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		var err error
		item, err = insert(tx, params)
		return err
	})
	if err != nil {
		return model.Item{}, err
	}

	m.log.Debug("item added",
		zap.Int64("id", item.ID), zap.String("game", item.GameID),
		zap.Int64("folder", item.FolderID), zap.Int("order", item.SortOrder))
	return item, nil
}

// InsertTrashed stores gameID directly in a folder's trash. It is used by
// import for rows that were trashed when exported, and fails with
// apperr.ErrDuplicateMembership when the game already has any item.
func (m *Manager) InsertTrashed(ctx context.Context, params model.NewItemParams) (model.Item, error) {
	if params.GameID == "" {
		return model.Item{}, apperr.ErrInvalidArgument.WithMessage("game id is required")
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = m.now()
	}

	var item model.Item
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		if _, err := tx.GetFolder(params.FolderID); err != nil {
			return err
		}
		existing, err := tx.ItemsByIndex(storage.IndexGame, params.GameID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperr.ErrDuplicateMembership.WithMessage("game %q already has an item", params.GameID)
		}

		item = model.NewItem(params)
		item.Deleted = true
		_, err = tx.PutItem(&item)
		return err
	})
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// MoveToFolder appends an active item to another folder and closes the gap
// it leaves behind. Moving to the item's own folder changes nothing.
func (m *Manager) MoveToFolder(ctx context.Context, itemID, folderID int64) (model.Item, error) {
	var item model.Item
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		var err error
		item, err = getActive(tx, itemID)
		if err != nil {
			return err
		}
		if item.FolderID == folderID {
			return nil
		}
		if _, err := tx.GetFolder(folderID); err != nil {
			return err
		}

		dest, err := activeInFolder(tx, folderID)
		if err != nil {
			return err
		}

		source, oldOrder := item.FolderID, item.SortOrder
		item.FolderID = folderID
		item.SortOrder = len(dest) + 1
		if _, err := tx.PutItem(&item); err != nil {
			return err
		}

		if err := closeGap(tx, source, oldOrder); err != nil {
			return err
		}
		return verifyFolders(tx, source, folderID)
	})
	if err != nil {
		return model.Item{}, err
	}

	m.log.Debug("item moved", zap.Int64("id", itemID), zap.Int64("folder", folderID))
	return item, nil
}

// Reorder moves an active item to a zero-based position within its folder
// and renumbers the whole folder. Positions outside the folder are clamped.
func (m *Manager) Reorder(ctx context.Context, itemID int64, position int) error {
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		item, err := getActive(tx, itemID)
		if err != nil {
			return err
		}

		items, err := activeInFolder(tx, item.FolderID)
		if err != nil {
			return err
		}

		ordered := make([]model.Item, 0, len(items))
		for _, it := range items {
			if it.ID != item.ID {
				ordered = append(ordered, it)
			}
		}
		position = max(0, min(position, len(ordered)))
		ordered = slices.Insert(ordered, position, item)

		for i := range ordered {
			if ordered[i].SortOrder == i+1 {
				continue
			}
			ordered[i].SortOrder = i + 1
			if _, err := tx.PutItem(&ordered[i]); err != nil {
				return err
			}
		}
		return verifyFolders(tx, item.FolderID)
	})
	if err != nil {
		return err
	}

	m.log.Debug("item reordered", zap.Int64("id", itemID), zap.Int("position", position))
	return nil
}

// SoftDelete moves an item to its folder's trash. Trashing a trashed item
// changes nothing.
func (m *Manager) SoftDelete(ctx context.Context, itemID int64) error {
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		item, err := tx.GetItem(itemID)
		if err != nil {
			return err
		}
		if item.Deleted {
			return nil
		}
		return trash(tx, item)
	})
	if err != nil {
		return err
	}

	m.log.Debug("item trashed", zap.Int64("id", itemID))
	return nil
}

// Restore takes an item out of the trash and appends it to its folder.
// The item does not get its old position back.
func (m *Manager) Restore(ctx context.Context, itemID int64) (model.Item, error) {
	var item model.Item
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		var err error
		item, err = tx.GetItem(itemID)
		if err != nil {
			return err
		}
		item, err = restore(tx, item)
		return err
	})
	if err != nil {
		return model.Item{}, err
	}

	m.log.Debug("item restored", zap.Int64("id", itemID), zap.Int("order", item.SortOrder))
	return item, nil
}

// Purge deletes an item for good.
func (m *Manager) Purge(ctx context.Context, itemID int64) error {
	return m.db.Update(ctx, func(tx *storage.Tx) error {
		item, err := tx.GetItem(itemID)
		if err != nil {
			return err
		}
		if err := tx.DeleteItem(item.ID); err != nil {
			return err
		}
		if item.Deleted {
			return nil
		}
		if err := closeGap(tx, item.FolderID, item.SortOrder); err != nil {
			return err
		}
		return verifyFolders(tx, item.FolderID)
	})
}

// PurgeAllInTrash deletes every trashed item of every folder for good and
// returns how many were removed.
func (m *Manager) PurgeAllInTrash(ctx context.Context) (int, error) {
	return m.purgeTrash(ctx, func(tx *storage.Tx) ([]model.Item, error) {
		return tx.ItemsByIndex(storage.IndexDeleted, true)
	})
}

// PurgeFolderTrash deletes the trashed items of one folder for good.
func (m *Manager) PurgeFolderTrash(ctx context.Context, folderID int64) (int, error) {
	return m.purgeTrash(ctx, func(tx *storage.Tx) ([]model.Item, error) {
		if _, err := tx.GetFolder(folderID); err != nil {
			return nil, err
		}
		return trashedInFolder(tx, folderID)
	})
}

func (m *Manager) purgeTrash(ctx context.Context, list func(tx *storage.Tx) ([]model.Item, error)) (int, error) {
	purged := 0
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		items, err := list(tx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if !it.Deleted {
				continue
			}
			if err := tx.DeleteItem(it.ID); err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	m.log.Debug("trash purged", zap.Int("items", purged))
	return purged, nil
}

// EmptyFolder moves every active item of a folder to the trash and
// returns how many were moved.
func (m *Manager) EmptyFolder(ctx context.Context, folderID int64) (int, error) {
	trashed := 0
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		if _, err := tx.GetFolder(folderID); err != nil {
			return err
		}
		items, err := activeInFolder(tx, folderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			it.Deleted = true
			it.SortOrder = model.NoOrder
			if _, err := tx.PutItem(&it); err != nil {
				return err
			}
		}
		trashed = len(items)
		return verifyFolders(tx, folderID)
	})
	if err != nil {
		return 0, err
	}

	m.log.Debug("folder emptied", zap.Int64("folder", folderID), zap.Int("items", trashed))
	return trashed, nil
}

// Toggle flips a game's membership: an active item goes to the trash,
// otherwise the game is added to folderID (or restored). It reports
// whether the game is in the collection afterwards.
func (m *Manager) Toggle(ctx context.Context, folderID int64, gameID string) (model.Item, bool, error) {
	var item model.Item
	var active bool
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		existing, err := tx.ItemsByIndex(storage.IndexGame, gameID)
		if err != nil {
			return err
		}
		for _, it := range existing {
			if it.Active() {
				item = it
				return trash(tx, it)
			}
		}

		item, err = insert(tx, model.NewItemParams{FolderID: folderID, GameID: gameID, CreatedAt: m.now()})
		active = err == nil
		return err
	})
	if err != nil {
		return model.Item{}, false, err
	}
	if !active {
		item.Deleted = true
		item.SortOrder = model.NoOrder
	}

	m.log.Debug("item toggled",
		zap.Int64("id", item.ID), zap.String("game", item.GameID),
		zap.Int64("folder", item.FolderID), zap.Bool("active", active))
	return item, active, nil
}

// === queries ===

// Get returns one item, active or trashed.
func (m *Manager) Get(ctx context.Context, itemID int64) (model.Item, error) {
	var item model.Item
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		item, err = tx.GetItem(itemID)
		return err
	})
	return item, err
}

// ListItemsByFolder returns a folder's active items in order.
func (m *Manager) ListItemsByFolder(ctx context.Context, folderID int64) ([]model.Item, error) {
	var items []model.Item
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		if _, err := tx.GetFolder(folderID); err != nil {
			return err
		}
		var err error
		items, err = activeInFolder(tx, folderID)
		return err
	})
	return items, err
}

// ListTrash returns the trashed items of a folder, or of every folder when
// folderID is zero.
func (m *Manager) ListTrash(ctx context.Context, folderID int64) ([]model.Item, error) {
	var items []model.Item
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		if folderID == 0 {
			items, err = tx.ItemsByIndex(storage.IndexDeleted, true)
			return err
		}
		if _, err := tx.GetFolder(folderID); err != nil {
			return err
		}
		items, err = trashedInFolder(tx, folderID)
		return err
	})
	return items, err
}

// CountActive returns the number of active items in a folder.
func (m *Manager) CountActive(ctx context.Context, folderID int64) (int, error) {
	items, err := m.ListItemsByFolder(ctx, folderID)
	return len(items), err
}

// FindActive returns the active item for gameID, if any.
func (m *Manager) FindActive(ctx context.Context, gameID string) (model.Item, bool, error) {
	var item model.Item
	var found bool
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		existing, err := tx.ItemsByIndex(storage.IndexGame, gameID)
		if err != nil {
			return err
		}
		for _, it := range existing {
			if it.Active() {
				item, found = it, true
				break
			}
		}
		return nil
	})
	return item, found, err
}

// Snapshot reads every folder and item in one transaction.
func (m *Manager) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := model.NewSnapshot()
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		if snap.Folders, err = tx.Folders(); err != nil {
			return err
		}
		snap.Items, err = tx.Items()
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
