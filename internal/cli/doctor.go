package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check ordering and membership rules across the whole store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				err := s.items.Verify(cmd.Context())
				if err == nil {
					return writeOut(cmd, app, map[string]any{"issues": []string{}}, msg(s.prefs.Locale, "doctor.ok"))
				}

				issues := []string{}
				for _, e := range multierr.Errors(err) {
					issues = append(issues, e.Error())
				}
				if werr := writeOut(cmd, app, map[string]any{"issues": issues}, strings.Join(issues, "\n")+"\n"); werr != nil {
					return werr
				}
				return err
			})
		},
	}
}
