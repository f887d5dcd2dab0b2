package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/picker"
	"github.com/nikbrunner/shelf/internal/search"
)

type findResult struct {
	Folders []model.Folder `json:"folders"`
	Items   []model.Item   `json:"items"`
}

func newFindCmd(app *App) *cobra.Command {
	var limit int
	var pick bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-search folder names and game ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return withSession(cmd, app, func(s *session) error {
				snap, err := s.items.Snapshot(cmd.Context())
				if err != nil {
					return err
				}

				folderHits := search.Folders(snap, query)
				itemHits := search.Items(snap, query)
				if limit > 0 {
					folderHits = folderHits[:min(limit, len(folderHits))]
					itemHits = itemHits[:min(limit, len(itemHits))]
				}

				if pick {
					return pickItem(cmd, app, snap, itemHits, query)
				}

				res := findResult{Folders: []model.Folder{}, Items: []model.Item{}}
				var b strings.Builder
				for _, r := range folderHits {
					res.Folders = append(res.Folders, *r.Folder)
					fmt.Fprintf(&b, "%s %d  %s\n",
						kindStyle.Render("folder"), r.Folder.ID, highlight(r.Folder.Name, r.MatchedIndexes))
				}
				for _, r := range itemHits {
					res.Items = append(res.Items, *r.Item)
					where := ""
					if f := snap.GetFolderByID(r.Item.FolderID); f != nil {
						where, _ = truncate(f.Name, maxNameWidth)
					}
					fmt.Fprintf(&b, "%s %d  %s  %s\n",
						kindStyle.Render("item"), r.Item.ID, highlight(r.Item.GameID, r.MatchedIndexes),
						dimStyle.Render(fmt.Sprintf("%s #%d", where, r.Item.SortOrder)))
				}

				if b.Len() == 0 {
					return writeOut(cmd, app, res, msg(s.prefs.Locale, "find.none", query))
				}
				return writeOut(cmd, app, res, b.String())
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results per kind (0 = all)")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose one matching item interactively and print its id")
	return cmd
}

// pickItem lets the user choose among the item hits and prints the chosen
// item's id, so it can feed other commands.
func pickItem(cmd *cobra.Command, app *App, snap *model.Snapshot, hits []search.ItemResult, query string) error {
	names := make(map[int64]string, len(snap.Folders))
	for _, f := range snap.Folders {
		names[f.ID] = f.Name
	}

	item, err := picker.Run(hits, names, query)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.ErrNotFound.WithMessage("no item selected for %q", query)
	}
	return writeOut(cmd, app, item, fmt.Sprintf("%d\n", item.ID))
}
