package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Add, order, move and trash collection items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsReorderCmd(app))
	cmd.AddCommand(newItemsTrashCmd(app))
	cmd.AddCommand(newItemsRestoreCmd(app))
	cmd.AddCommand(newItemsPurgeCmd(app))
	cmd.AddCommand(newItemsToggleCmd(app))
	cmd.AddCommand(newItemsEmptyCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var folderID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active items of a folder in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				id, err := s.resolveFolder(cmd.Context(), folderID)
				if err != nil {
					return err
				}
				items, err := s.items.ListItemsByFolder(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, items, renderItems(s.prefs.Locale, items))
			})
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Folder id (default: the configured default folder)")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var folderID int64

	cmd := &cobra.Command{
		Use:   "add <game-id>",
		Short: "Append a game to the end of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				id, err := s.resolveFolder(cmd.Context(), folderID)
				if err != nil {
					return err
				}
				it, err := s.items.Add(cmd.Context(), id, args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, it, msg(s.prefs.Locale, "item.added", it.GameID, it.FolderID, it.SortOrder))
			})
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Folder id (default: the configured default folder)")
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <item-id> <folder-id>",
		Short: "Move an item to the end of another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			folderID, err := parseID("folder", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}

			return withSession(cmd, app, func(s *session) error {
				it, err := s.items.MoveToFolder(cmd.Context(), itemID, folderID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, it, msg(s.prefs.Locale, "item.moved", it.ID, it.FolderID, it.SortOrder))
			})
		},
	}
}

func newItemsReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <item-id> <position>",
		Short: "Move an item to a zero-based position within its folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			position, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, apperr.ErrInvalidArgument.WithMessage("invalid position: %q", args[1]))
			}

			return withSession(cmd, app, func(s *session) error {
				if err := s.items.Reorder(cmd.Context(), itemID, position); err != nil {
					return err
				}
				it, err := s.items.Get(cmd.Context(), itemID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, it, msg(s.prefs.Locale, "item.reordered", it.ID, it.SortOrder))
			})
		},
	}
}

func newItemsTrashCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "trash <item-id>",
		Aliases: []string{"rm"},
		Short:   "Move an item to the trash",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				if err := s.items.SoftDelete(cmd.Context(), itemID); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"id": itemID}, msg(s.prefs.Locale, "item.trashed", itemID))
			})
		},
	}
}

func newItemsRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <item-id>",
		Short: "Take an item out of the trash; it goes to the end of its folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				it, err := s.items.Restore(cmd.Context(), itemID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, it, msg(s.prefs.Locale, "item.restored", it.ID, it.SortOrder))
			})
		},
	}
}

func newItemsPurgeCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <item-id>",
		Short: "Delete an item for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				if err := confirm(s, yes, "purge an item"); err != nil {
					return err
				}
				if err := s.items.Purge(cmd.Context(), itemID); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"id": itemID}, msg(s.prefs.Locale, "item.purged", itemID))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation check")
	return cmd
}

func newItemsToggleCmd(app *App) *cobra.Command {
	var folderID int64

	cmd := &cobra.Command{
		Use:   "toggle <game-id>",
		Short: "Trash a game that is in the collection, add it otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				id, err := s.resolveFolder(cmd.Context(), folderID)
				if err != nil {
					return err
				}
				it, active, err := s.items.Toggle(cmd.Context(), id, args[0])
				if err != nil {
					return err
				}
				text := msg(s.prefs.Locale, "item.toggled.off", it.GameID)
				if active {
					text = msg(s.prefs.Locale, "item.toggled.on", it.GameID, it.FolderID)
				}
				return writeOut(cmd, app, map[string]any{"item": it, "active": active}, text)
			})
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Folder to add to (default: the configured default folder)")
	return cmd
}

func newItemsEmptyCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "empty <folder-id>",
		Short: "Move every item of a folder to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folderID, err := parseID("folder", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				if err := confirm(s, yes, "empty a folder"); err != nil {
					return err
				}
				n, err := s.items.EmptyFolder(cmd.Context(), folderID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"trashedCount": n}, msg(s.prefs.Locale, "folder.emptied", n))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation check")
	return cmd
}

// resolveFolder picks the folder a command works on: the explicit id, the
// folder named by the defaultFolder setting, or the first folder.
func (s *session) resolveFolder(ctx context.Context, id int64) (int64, error) {
	if id > 0 {
		return id, nil
	}

	if name := s.prefs.DefaultFolder; name != "" {
		f, ok, err := s.folders.FindByName(ctx, name)
		if err != nil {
			return 0, err
		}
		if ok {
			return f.ID, nil
		}
	}

	list, err := s.folders.ListFolders(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, apperr.ErrNotFound.WithMessage("no folders; create one with `shelf folders create`")
	}
	return list[0].ID, nil
}

// confirm guards destructive commands while the confirmDelete setting is on.
func confirm(s *session, yes bool, action string) error {
	if yes || !s.prefs.ConfirmDelete {
		return nil
	}
	return apperr.ErrInvalidArgument.WithMessage("%s", msg(s.prefs.Locale, "confirm.required", action))
}

func renderItems(locale string, items []model.Item) string {
	if len(items) == 0 {
		return msg(locale, "items.none")
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		pos := "-"
		if it.Active() {
			pos = strconv.Itoa(it.SortOrder)
		}
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10), pos, it.GameID,
			strconv.FormatInt(it.FolderID, 10), model.FormatTimestamp(it.CreatedAt),
		})
	}
	return renderTable([]string{"ID", "POS", "GAME", "FOLDER", "ADDED"}, rows)
}
