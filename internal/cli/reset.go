package cli

import (
	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/folders"
	"github.com/nikbrunner/shelf/internal/settings"
	"github.com/nikbrunner/shelf/internal/storage"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop the whole database and start over with the default folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Always asks, whatever confirmDelete says.
			if !yes {
				return writeErr(cmd, apperr.ErrInvalidArgument.WithMessage("refusing to drop the database without --yes"))
			}

			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			locale := s.prefs.Locale

			defaults, err := settings.FactoryReset(s.db)
			if err != nil {
				s.Close()
				return writeErr(cmd, err)
			}

			db, err := storage.Open(app.cfg.DBPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			seeded, err := folders.NewManager(db).EnsureDefaults(cmd.Context(), app.cfg.DefaultFolders)
			if err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{"settings": defaults, "folders": seeded},
				msg(locale, "reset.done", len(seeded)))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm dropping the database")
	return cmd
}
