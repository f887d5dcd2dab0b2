package folders

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/logger"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// MaxNameLength bounds folder names.
const MaxNameLength = model.MaxFolderNameLength

// Manager creates, renames, lists and deletes folders.
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
		log: logger.WithModule("folders"),
	}
}

// CreateFolder inserts a folder and returns its ID. Names need not be unique.
func (m *Manager) CreateFolder(ctx context.Context, name string) (int64, error) {
	f, err := m.Create(ctx, model.NewFolderParams{Name: name})
	return f.ID, err
}

// Create is CreateFolder with full control over the new folder's fields.
func (m *Manager) Create(ctx context.Context, params model.NewFolderParams) (model.Folder, error) {
	name, err := validateName(params.Name)
	if err != nil {
		return model.Folder{}, err
	}
	params.Name = name
	if params.CreatedAt.IsZero() {
		params.CreatedAt = m.now()
	}

	f := model.NewFolder(params)
	err = m.db.Update(ctx, func(tx *storage.Tx) error {
		_, err := tx.PutFolder(&f)
		return err
	})
	if err != nil {
		return model.Folder{}, err
	}

	m.log.Debug("folder created", zap.Int64("id", f.ID), zap.String("name", f.Name))
	return f, nil
}

// RenameFolder changes the display name of a folder.
func (m *Manager) RenameFolder(ctx context.Context, id int64, name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}

	return m.db.Update(ctx, func(tx *storage.Tx) error {
		f, err := tx.GetFolder(id)
		if err != nil {
			return err
		}
		f.Name = name
		_, err = tx.PutFolder(&f)
		return err
	})
}

// GetFolder returns one folder, or apperr.ErrNotFound.
func (m *Manager) GetFolder(ctx context.Context, id int64) (model.Folder, error) {
	var f model.Folder
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		f, err = tx.GetFolder(id)
		return err
	})
	return f, err
}

// ListFolders returns every folder in creation order.
func (m *Manager) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		folders, err = tx.Folders()
		return err
	})
	return folders, err
}

// FindByName returns the first folder whose name matches exactly.
func (m *Manager) FindByName(ctx context.Context, name string) (model.Folder, bool, error) {
	folders, err := m.ListFolders(ctx)
	if err != nil {
		return model.Folder{}, false, err
	}
	for _, f := range folders {
		if f.Name == name {
			return f, true, nil
		}
	}
	return model.Folder{}, false, nil
}

// DeleteFolder removes a folder together with all of its items, trashed
// ones included, and returns how many items went with it. The first folder
// cannot be deleted while other folders exist.
func (m *Manager) DeleteFolder(ctx context.Context, id int64) (int, error) {
	removed := 0
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		folders, err := tx.Folders()
		if err != nil {
			return err
		}

		idx := -1
		for i, f := range folders {
			if f.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.ErrNotFound.WithMessage("folder %d not found", id)
		}
		if idx == 0 && len(folders) > 1 {
			return apperr.ErrProtectedFolder.WithMessage(
				"folder %q is the default folder and cannot be deleted while other folders exist", folders[0].Name)
		}

		// Items first, folder record last.
		items, err := tx.ItemsByIndex(storage.IndexFolder, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.DeleteItem(it.ID); err != nil {
				return err
			}
		}
		removed = len(items)
		return tx.DeleteFolder(id)
	})
	if err != nil {
		return 0, err
	}

	m.log.Debug("folder deleted", zap.Int64("id", id), zap.Int("items", removed))
	return removed, nil
}

// EnsureDefaults seeds the given folders when the store has none and
// returns the folder list afterwards.
func (m *Manager) EnsureDefaults(ctx context.Context, names []string) ([]model.Folder, error) {
	var folders []model.Folder
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		var err error
		folders, err = tx.Folders()
		if err != nil || len(folders) > 0 {
			return err
		}

		for _, name := range names {
			name, err := validateName(name)
			if err != nil {
				return err
			}
			f := model.NewFolder(model.NewFolderParams{Name: name, CreatedAt: m.now()})
			if _, err := tx.PutFolder(&f); err != nil {
				return err
			}
			folders = append(folders, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folders, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, MaxNameLength),
	)
	if err != nil {
		return "", apperr.ErrInvalidArgument.WithMessage("folder name: %v", err)
	}
	return name, nil
}
