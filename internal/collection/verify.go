package collection

import (
	"context"

	"go.uber.org/multierr"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
)

// Verify checks the whole store: every folder's active items are numbered
// 1..n, no game has more than one active item, trashed items carry no
// order, and no item points at a missing folder. All violations found are
// returned together.
func (m *Manager) Verify(ctx context.Context) error {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	return VerifySnapshot(snap)
}

// VerifySnapshot runs the checks of Verify against an in-memory snapshot.
func VerifySnapshot(snap *model.Snapshot) error {
	var errs error

	for _, f := range snap.Folders {
		errs = multierr.Append(errs, checkContiguous(f.ID, snap.GetActiveItemsInFolder(f.ID)))
	}

	activeByGame := map[string]int64{}
	for _, it := range snap.Items {
		if snap.GetFolderByID(it.FolderID) == nil {
			errs = multierr.Append(errs, apperr.ErrInvariant.WithMessage(
				"item %d points at missing folder %d", it.ID, it.FolderID))
		}
		if it.Deleted {
			if it.SortOrder != model.NoOrder {
				errs = multierr.Append(errs, apperr.ErrInvariant.WithMessage(
					"trashed item %d still has sort order %d", it.ID, it.SortOrder))
			}
			continue
		}
		if other, ok := activeByGame[it.GameID]; ok {
			errs = multierr.Append(errs, apperr.ErrInvariant.WithMessage(
				"game %q is active in items %d and %d", it.GameID, other, it.ID))
			continue
		}
		activeByGame[it.GameID] = it.ID
	}

	return errs
}
