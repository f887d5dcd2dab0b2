package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/importer"
)

func newExportCmd(app *App) *cobra.Command {
	var format string
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the whole collection to a JSON or YAML document",
		Long:  "Write the whole collection to a document. Without a path the file goes to ~/Downloads/shelf-export-<date>.json.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = exporter.DefaultExportPath(); err != nil {
					return writeErr(cmd, err)
				}
			}

			f := exporter.Format(format)
			if format == "" {
				f = exporter.FormatForPath(path)
			}

			return withSession(cmd, app, func(s *session) error {
				snap, err := s.items.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				current, err := s.settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				doc := exporter.Export(snap, current, time.Now())

				if toClipboard {
					var buf bytes.Buffer
					if err := exporter.Encode(&buf, doc, f); err != nil {
						return err
					}
					if err := clipboard.WriteAll(buf.String()); err != nil {
						return err
					}
					return writeOut(cmd, app,
						map[string]any{"clipboard": true, "id": doc.ID, "folders": len(doc.Folders), "items": len(doc.Collection)},
						msg(s.prefs.Locale, "export.clipboard", len(doc.Collection), len(doc.Folders)))
				}

				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return err
				}
				out, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := exporter.Encode(out, doc, f); err != nil {
					out.Close()
					return err
				}
				if err := out.Close(); err != nil {
					return err
				}

				return writeOut(cmd, app,
					map[string]any{"path": path, "id": doc.ID, "folders": len(doc.Folders), "items": len(doc.Collection)},
					msg(s.prefs.Locale, "export.done", len(doc.Collection), len(doc.Folders), path))
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (default: from the file extension)")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the document to the clipboard instead of writing a file")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Merge a document into the collection; games already present are skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f := exporter.Format(format)
			if format == "" {
				f = exporter.FormatForPath(path)
			}

			in, err := os.Open(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer in.Close()

			doc, err := importer.Parse(in, f)
			if err != nil {
				return writeErr(cmd, err)
			}

			return withSession(cmd, app, func(s *session) error {
				res, err := importer.New(s.folders, s.items, s.settings).Import(cmd.Context(), doc)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, res,
					msg(s.prefs.Locale, "import.done", res.Imported, res.Skipped, res.FoldersCreated))
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (default: from the file extension)")
	return cmd
}
