package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
)

// Index names a secondary lookup index on the items collection.
type Index string

const (
	IndexFolder  Index = "folder_id"
	IndexGame    Index = "game_id"
	IndexDeleted Index = "deleted"
)

const itemColumns = `id, folder_id, game_id, sort_order, created_at, deleted`

// itemOrder lists active items by position, then trashed items by id.
const itemOrder = `ORDER BY deleted, sort_order, id`

// Tx exposes the collection operations of one transaction.
type Tx struct {
	tx  *sql.Tx
	ctx context.Context
}

// === Folders ===

// PutFolder inserts f when f.ID is zero, assigning the new ID to f, and
// overwrites the stored record otherwise.
func (t *Tx) PutFolder(f *model.Folder) (int64, error) {
	createdAt := model.FormatTimestamp(f.CreatedAt)

	if f.ID == 0 {
		res, err := t.tx.ExecContext(t.ctx,
			`INSERT INTO folders (name, created_at) VALUES (?, ?)`, f.Name, createdAt)
		if err != nil {
			return 0, apperr.Storage(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, apperr.Storage(err)
		}
		f.ID = id
		return id, nil
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO folders (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, created_at = excluded.created_at
	`, f.ID, f.Name, createdAt)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return f.ID, nil
}

// GetFolder returns the folder with id, or apperr.ErrNotFound.
func (t *Tx) GetFolder(id int64) (model.Folder, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT id, name, created_at FROM folders WHERE id = ?`, id)
	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Folder{}, apperr.ErrNotFound.WithMessage("folder %d not found", id)
	}
	if err != nil {
		return model.Folder{}, apperr.Storage(err)
	}
	return f, nil
}

// Folders returns every folder in insertion order.
func (t *Tx) Folders() ([]model.Folder, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT id, name, created_at FROM folders ORDER BY id`)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return folders, nil
}

// DeleteFolder removes the folder record. Absent ids are not an error.
// Items still pointing at the folder make this fail.
func (t *Tx) DeleteFolder(id int64) error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM folders WHERE id = ?`, id)
	return apperr.Storage(err)
}

// === Items ===

// PutItem inserts it when it.ID is zero, assigning the new ID to it, and
// overwrites the stored record otherwise. A write that would leave two
// active items for one game fails with apperr.ErrDuplicateMembership.
func (t *Tx) PutItem(it *model.Item) (int64, error) {
	var sortOrder sql.NullInt64
	if it.SortOrder != model.NoOrder {
		sortOrder = sql.NullInt64{Int64: int64(it.SortOrder), Valid: true}
	}
	createdAt := model.FormatTimestamp(it.CreatedAt)

	if it.ID == 0 {
		res, err := t.tx.ExecContext(t.ctx, `
			INSERT INTO items (folder_id, game_id, sort_order, created_at, deleted)
			VALUES (?, ?, ?, ?, ?)
		`, it.FolderID, it.GameID, sortOrder, createdAt, boolToInt(it.Deleted))
		if err != nil {
			return 0, t.itemWriteError(it, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, apperr.Storage(err)
		}
		it.ID = id
		return id, nil
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO items (id, folder_id, game_id, sort_order, created_at, deleted)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			folder_id = excluded.folder_id,
			game_id = excluded.game_id,
			sort_order = excluded.sort_order,
			created_at = excluded.created_at,
			deleted = excluded.deleted
	`, it.ID, it.FolderID, it.GameID, sortOrder, createdAt, boolToInt(it.Deleted))
	if err != nil {
		return 0, t.itemWriteError(it, err)
	}
	return it.ID, nil
}

// GetItem returns the item with id, or apperr.ErrNotFound.
func (t *Tx) GetItem(id int64) (model.Item, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, apperr.ErrNotFound.WithMessage("item %d not found", id)
	}
	if err != nil {
		return model.Item{}, apperr.Storage(err)
	}
	return it, nil
}

// ItemsByIndex returns every item whose indexed column equals value,
// active items first by position. Each call runs a fresh query.
func (t *Tx) ItemsByIndex(index Index, value any) ([]model.Item, error) {
	switch index {
	case IndexFolder, IndexGame:
	case IndexDeleted:
		if b, ok := value.(bool); ok {
			value = boolToInt(b)
		}
	default:
		return nil, apperr.ErrInvalidArgument.WithMessage("unknown index %q", index)
	}

	return t.queryItems(fmt.Sprintf(`SELECT %s FROM items WHERE %s = ? %s`, itemColumns, index, itemOrder), value)
}

// Items returns every item in the store.
func (t *Tx) Items() ([]model.Item, error) {
	return t.queryItems(`SELECT ` + itemColumns + ` FROM items ORDER BY id`)
}

// DeleteItem removes the item record. Absent ids are not an error.
func (t *Tx) DeleteItem(id int64) error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM items WHERE id = ?`, id)
	return apperr.Storage(err)
}

// === Settings ===

// GetSetting returns the raw value stored under key and whether it exists.
func (t *Tx) GetSetting(key string) ([]byte, bool, error) {
	var value string
	err := t.tx.QueryRowContext(t.ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperr.Storage(err)
	}
	return []byte(value), true, nil
}

// PutSetting replaces the value stored under key.
func (t *Tx) PutSetting(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, string(value))
	return apperr.Storage(err)
}

// DeleteSetting removes key. Absent keys are not an error.
func (t *Tx) DeleteSetting(key string) error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM settings WHERE key = ?`, key)
	return apperr.Storage(err)
}

// Clear removes every record of one collection.
func (t *Tx) Clear(c Collection) error {
	switch c {
	case CollectionFolders, CollectionItems, CollectionSettings:
	default:
		return apperr.ErrInvalidArgument.WithMessage("unknown collection %q", c)
	}
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM `+string(c))
	return apperr.Storage(err)
}

// === helpers ===

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (model.Folder, error) {
	var f model.Folder
	var createdAtStr string
	if err := row.Scan(&f.ID, &f.Name, &createdAtStr); err != nil {
		return model.Folder{}, err
	}
	createdAt, err := model.ParseTimestamp(createdAtStr)
	if err != nil {
		return model.Folder{}, apperr.Storage(fmt.Errorf("folder %d: created_at: %w", f.ID, err))
	}
	f.CreatedAt = createdAt
	return f, nil
}

func scanItem(row rowScanner) (model.Item, error) {
	var it model.Item
	var sortOrder sql.NullInt64
	var createdAtStr string
	var deleted int

	if err := row.Scan(&it.ID, &it.FolderID, &it.GameID, &sortOrder, &createdAtStr, &deleted); err != nil {
		return model.Item{}, err
	}

	if sortOrder.Valid {
		it.SortOrder = int(sortOrder.Int64)
	}
	createdAt, err := model.ParseTimestamp(createdAtStr)
	if err != nil {
		return model.Item{}, apperr.Storage(fmt.Errorf("item %d: created_at: %w", it.ID, err))
	}
	it.CreatedAt = createdAt
	it.Deleted = deleted == 1
	return it, nil
}

func (t *Tx) queryItems(query string, args ...any) ([]model.Item, error) {
	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return items, nil
}

// itemWriteError maps engine constraint failures onto the error taxonomy.
func (t *Tx) itemWriteError(it *model.Item, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return apperr.ErrDuplicateMembership.WithMessage("game %q is already in the collection", it.GameID)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return apperr.ErrNotFound.WithMessage("folder %d not found", it.FolderID)
		}
	}
	return apperr.Storage(err)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
