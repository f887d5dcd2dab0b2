package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/settings"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change user settings",
	}
	cmd.AddCommand(newSettingsShowCmd(app))
	cmd.AddCommand(newSettingsSetCmd(app))
	cmd.AddCommand(newSettingsResetCmd(app))
	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				current, err := s.settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				return writeOut(cmd, app, current, renderSettings(current))
			})
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key=value>...",
		Short:   "Change one or more settings",
		Example: "  shelf settings set locale=de confirmDelete=false",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := parseAssignments(args)
			if err != nil {
				return writeErr(cmd, err)
			}

			return withSession(cmd, app, func(s *session) error {
				current, err := s.settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				merged := current.Merge(overlay)
				prefs, err := settings.Decode(merged)
				if err != nil {
					return err
				}
				if err := s.settings.Save(cmd.Context(), merged); err != nil {
					return err
				}
				// Confirm in the language just chosen.
				return writeOut(cmd, app, merged, msg(prefs.Locale, "settings.saved"))
			})
		},
	}
}

func newSettingsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				defaults, err := s.settings.Reset(cmd.Context())
				if err != nil {
					return err
				}
				return writeOut(cmd, app, defaults, msg(fmt.Sprint(defaults["locale"]), "settings.reset"))
			})
		},
	}
}

// parseAssignments turns key=value arguments into settings. Values that
// parse as integers or booleans keep that type.
func parseAssignments(args []string) (model.Settings, error) {
	out := model.Settings{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, apperr.ErrInvalidArgument.WithMessage("expected key=value, got %q", arg)
		}

		if n, err := strconv.Atoi(value); err == nil {
			out[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			out[key] = b
		} else {
			out[key] = value
		}
	}
	return out, nil
}

func renderSettings(s model.Settings) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %v\n", k, s[k])
	}
	return b.String()
}
