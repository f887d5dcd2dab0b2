package cli

import (
	"github.com/spf13/cobra"
)

func newTrashCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and purge trashed items",
	}
	cmd.AddCommand(newTrashListCmd(app))
	cmd.AddCommand(newTrashPurgeCmd(app))
	return cmd
}

func newTrashListCmd(app *App) *cobra.Command {
	var folderID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trashed items of one folder or of all folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				items, err := s.items.ListTrash(cmd.Context(), folderID)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					return writeOut(cmd, app, items, msg(s.prefs.Locale, "trash.empty"))
				}
				return writeOut(cmd, app, items, renderItems(s.prefs.Locale, items))
			})
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Only this folder's trash")
	return cmd
}

func newTrashPurgeCmd(app *App) *cobra.Command {
	var folderID int64
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete trashed items for good",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				if err := confirm(s, yes, "purge the trash"); err != nil {
					return err
				}

				var n int
				var err error
				if folderID > 0 {
					n, err = s.items.PurgeFolderTrash(cmd.Context(), folderID)
				} else {
					n, err = s.items.PurgeAllInTrash(cmd.Context())
				}
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"purgedCount": n}, msg(s.prefs.Locale, "trash.purged", n))
			})
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Only this folder's trash")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation check")
	return cmd
}
