package search

import (
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/sahilm/fuzzy"
)

// FolderResult is a fuzzy match on a folder name.
type FolderResult struct {
	Folder         *model.Folder
	MatchedIndexes []int
	Score          int
}

// ItemResult is a fuzzy match on an active item's game id.
type ItemResult struct {
	Item           *model.Item
	MatchedIndexes []int
	Score          int
}

// folderNames implements fuzzy.Source for a folder slice.
type folderNames []*model.Folder

func (fn folderNames) String(i int) string { return fn[i].Name }
func (fn folderNames) Len() int            { return len(fn) }

// gameIDs implements fuzzy.Source for an item slice.
type gameIDs []*model.Item

func (g gameIDs) String(i int) string { return g[i].GameID }
func (g gameIDs) Len() int            { return len(g) }

// Folders searches folder names. Results are sorted by score, best first.
func Folders(snap *model.Snapshot, query string) []FolderResult {
	if query == "" {
		return nil
	}

	folders := make(folderNames, len(snap.Folders))
	for i := range snap.Folders {
		folders[i] = &snap.Folders[i]
	}

	matches := fuzzy.FindFrom(query, folders)

	results := make([]FolderResult, len(matches))
	for i, m := range matches {
		results[i] = FolderResult{
			Folder:         folders[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Items searches the game ids of active items; trashed items are skipped.
func Items(snap *model.Snapshot, query string) []ItemResult {
	if query == "" {
		return nil
	}

	var items gameIDs
	for i := range snap.Items {
		if snap.Items[i].Active() {
			items = append(items, &snap.Items[i])
		}
	}

	matches := fuzzy.FindFrom(query, items)

	results := make([]ItemResult, len(matches))
	for i, m := range matches {
		results[i] = ItemResult{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
