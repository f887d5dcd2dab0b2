package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
)

type folderRow struct {
	model.Folder
	Active  int `json:"activeCount"`
	Trashed int `json:"trashedCount"`
}

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List and manage folders",
	}
	cmd.AddCommand(newFoldersListCmd(app))
	cmd.AddCommand(newFoldersCreateCmd(app))
	cmd.AddCommand(newFoldersRenameCmd(app))
	cmd.AddCommand(newFoldersDeleteCmd(app))
	return cmd
}

func newFoldersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders with their item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				snap, err := s.items.Snapshot(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([]folderRow, 0, len(snap.Folders))
				for _, f := range snap.Folders {
					all := snap.GetItemsInFolder(f.ID)
					active := len(snap.GetActiveItemsInFolder(f.ID))
					rows = append(rows, folderRow{Folder: f, Active: active, Trashed: len(all) - active})
				}

				if len(rows) == 0 {
					return writeOut(cmd, app, rows, msg(s.prefs.Locale, "folder.none"))
				}

				cells := make([][]string, 0, len(rows))
				for _, r := range rows {
					name, _ := truncate(r.Name, maxNameWidth)
					cells = append(cells, []string{
						strconv.FormatInt(r.ID, 10), name, strconv.Itoa(r.Active), strconv.Itoa(r.Trashed),
					})
				}
				return writeOut(cmd, app, rows, renderTable([]string{"ID", "NAME", "ITEMS", "TRASH"}, cells))
			})
		},
	}
}

func newFoldersCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				f, err := s.folders.Create(cmd.Context(), model.NewFolderParams{Name: strings.Join(args, " ")})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, f, msg(s.prefs.Locale, "folder.created", f.ID, f.Name))
			})
		},
	}
}

func newFoldersRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <folder-id> <name>",
		Short: "Rename a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("folder", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.Join(args[1:], " ")

			return withSession(cmd, app, func(s *session) error {
				if err := s.folders.RenameFolder(cmd.Context(), id, name); err != nil {
					return err
				}
				f, err := s.folders.GetFolder(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, f, msg(s.prefs.Locale, "folder.renamed", f.ID, f.Name))
			})
		},
	}
}

func newFoldersDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder and every item in it, trash included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("folder", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			return withSession(cmd, app, func(s *session) error {
				if err := confirm(s, yes, "delete a folder"); err != nil {
					return err
				}
				removed, err := s.folders.DeleteFolder(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"id": id, "removedItems": removed},
					msg(s.prefs.Locale, "folder.deleted", id, removed))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation check")
	return cmd
}
