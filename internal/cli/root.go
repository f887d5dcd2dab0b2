package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/collection"
	"github.com/nikbrunner/shelf/internal/folders"
	"github.com/nikbrunner/shelf/internal/logger"
	"github.com/nikbrunner/shelf/internal/settings"
	"github.com/nikbrunner/shelf/internal/storage"
)

// App holds the global flags and the loaded configuration.
type App struct {
	ConfigPath string
	DBPath     string
	JSON       bool

	cfg *storage.Config
}

// NewRootCmd builds the shelf command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Local game collection: folders, ordering and trash",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Folders
  shelf folders list
  shelf folders create Backlog

  # Put a game at the end of a folder, then move it to the front
  shelf items add g100 --folder 1
  shelf items reorder 7 0

  # Trash and restore
  shelf items trash 7
  shelf items restore 7

  # Back up and restore the whole collection
  shelf export backup.json
  shelf import backup.json
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := storage.LoadConfig(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, err)
		}
		if app.DBPath != "" {
			cfg.DBPath = app.DBPath
		}
		app.cfg = cfg
		return logger.Init(cfg.LogLevel)
	}

	defaultConfig, _ := storage.DefaultConfigFilePath()
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", defaultConfig, "Path to config file")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "Path to the database file (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print JSON instead of text")

	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newTrashCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newFindCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newResetCmd(app))

	return cmd
}

// session is one opened store plus the managers working on it.
type session struct {
	db       *storage.DB
	folders  *folders.Manager
	items    *collection.Manager
	settings *settings.Store
	prefs    settings.Preferences
}

// open opens the configured database, seeds the default folders on an
// empty store and loads the user's preferences.
func (app *App) open(ctx context.Context) (*session, error) {
	db, err := storage.Open(app.cfg.DBPath)
	if err != nil {
		return nil, err
	}

	s := &session{
		db:       db,
		folders:  folders.NewManager(db),
		items:    collection.NewManager(db),
		settings: settings.NewStore(db),
	}

	if _, err := s.folders.EnsureDefaults(ctx, app.cfg.DefaultFolders); err != nil {
		db.Close()
		return nil, err
	}

	current, err := s.settings.Load(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if s.prefs, err = settings.Decode(current); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, app *App, fn func(s *session) error) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// writeOut prints v as a JSON envelope when --json is set, and the text
// rendering otherwise.
func writeOut(cmd *cobra.Command, app *App, v any, text string) error {
	if app.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"data": v})
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

func writeErr(cmd *cobra.Command, err error) error {
	logger.Logger().Debug("command failed",
		zap.String("command", cmd.CommandPath()), zap.String("code", apperr.Code(err)), zap.Error(err))
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ErrInvalidArgument.WithMessage("invalid %s id: %q", kind, s)
	}
	return id, nil
}
