package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/cli"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) harness {
	return harness{t: t, dir: t.TempDir()}
}

func (h harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	cmd := cli.NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--db", filepath.Join(h.dir, "shelf.db"),
		"--config", filepath.Join(h.dir, "missing.yaml"),
	}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustJSON runs a command with --json and returns the data field.
func (h harness) mustJSON(args ...string) any {
	h.t.Helper()
	stdout, stderr, err := h.run(append([]string{"--json"}, args...)...)
	assert.NilError(h.t, err, "shelf %v\nstderr: %s", args, stderr)

	var env map[string]any
	assert.NilError(h.t, json.Unmarshal([]byte(stdout), &env), stdout)
	data, ok := env["data"]
	assert.Assert(h.t, ok, stdout)
	return data
}

func TestFolders_DefaultsAreSeeded(t *testing.T) {
	h := newHarness(t)

	rows := h.mustJSON("folders", "list").([]any)
	assert.Equal(t, len(rows), 3)
	first := rows[0].(map[string]any)
	assert.Equal(t, first["id"], float64(1))
	assert.Equal(t, first["name"], "Favorites")
}

func TestFolders_ListText(t *testing.T) {
	h := newHarness(t)
	h.mustJSON("items", "add", "g1", "--folder", "2")

	stdout, _, err := h.run("folders", "list")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(stdout, "NAME"), stdout)
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "Wishlist") {
			assert.Assert(t, strings.Contains(line, " 1 "), line)
			return
		}
	}
	t.Fatalf("no Wishlist row in:\n%s", stdout)
}

func TestItems_Workflow(t *testing.T) {
	h := newHarness(t)

	created := h.mustJSON("folders", "create", "Backlog").(map[string]any)
	backlog := created["id"].(float64)
	assert.Equal(t, backlog, float64(4))

	for _, g := range []string{"g1", "g2", "g3"} {
		h.mustJSON("items", "add", g, "--folder", "4")
	}

	item := h.mustJSON("items", "reorder", "3", "0").(map[string]any)
	assert.Equal(t, item["sortOrder"], float64(1))

	h.mustJSON("items", "trash", "1")
	list := h.mustJSON("items", "list", "--folder", "4").([]any)
	games := []string{}
	for _, raw := range list {
		games = append(games, raw.(map[string]any)["gameId"].(string))
	}
	assert.DeepEqual(t, games, []string{"g3", "g2"})

	trash := h.mustJSON("trash", "list").([]any)
	assert.Equal(t, len(trash), 1)

	restored := h.mustJSON("items", "restore", "1").(map[string]any)
	assert.Equal(t, restored["sortOrder"], float64(3))

	moved := h.mustJSON("items", "move", "2", "1").(map[string]any)
	assert.Equal(t, moved["folderId"], float64(1))
	assert.Equal(t, moved["sortOrder"], float64(1))

	stdout, _, err := h.run("doctor")
	assert.NilError(t, err)
	assert.Equal(t, stdout, "No problems found\n")
}

func TestItems_AddUsesDefaultFolderSetting(t *testing.T) {
	h := newHarness(t)

	h.mustJSON("settings", "set", "defaultFolder=Wishlist")
	item := h.mustJSON("items", "add", "g1").(map[string]any)
	assert.Equal(t, item["folderId"], float64(2))
}

func TestItems_DuplicateAddFails(t *testing.T) {
	h := newHarness(t)

	h.mustJSON("items", "add", "g1")
	_, stderr, err := h.run("items", "add", "g1", "--folder", "2")
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(stderr, "already"), stderr)
}

func TestFolders_DeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("folders", "delete", "3")
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(stderr, "--yes"), stderr)

	h.mustJSON("settings", "set", "confirmDelete=false")
	out := h.mustJSON("folders", "delete", "3").(map[string]any)
	assert.Equal(t, out["removedItems"], float64(0))

	_, stderr, err = h.run("folders", "delete", "1", "--yes")
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(stderr, "cannot be deleted"), stderr)
}

func TestSettings_LocaleChangesMessages(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("settings", "set", "locale=de")
	assert.NilError(t, err)
	assert.Equal(t, stdout, "Einstellungen gespeichert\n")

	stdout, _, err = h.run("items", "add", "g1", "--folder", "1")
	assert.NilError(t, err)
	assert.Equal(t, stdout, "g1 zu Ordner 1 an Position 1 hinzugefügt\n")

	stdout, _, err = h.run("settings", "reset")
	assert.NilError(t, err)
	assert.Equal(t, stdout, "Settings reset to defaults\n")
}

func TestExportImport(t *testing.T) {
	src := newHarness(t)
	src.mustJSON("items", "add", "g1", "--folder", "1")
	src.mustJSON("items", "add", "g2", "--folder", "2")
	path := filepath.Join(src.dir, "out", "backup.yaml")
	exported := src.mustJSON("export", path).(map[string]any)
	assert.Equal(t, exported["items"], float64(2))

	_, err := os.Stat(path)
	assert.NilError(t, err)

	dst := newHarness(t)
	dst.mustJSON("items", "add", "g1", "--folder", "3")
	res := dst.mustJSON("import", path).(map[string]any)
	assert.Equal(t, res["importedCount"], float64(1))
	assert.Equal(t, res["skippedCount"], float64(1))
	assert.Equal(t, res["foldersCreated"], float64(0))
}

func TestImport_InvalidDocument(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "bad.json")
	assert.NilError(t, os.WriteFile(path, []byte(`{"version":"2"}`), 0o644))

	_, stderr, err := h.run("import", path)
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(stderr, "invalid import document"), stderr)
}

func TestFind(t *testing.T) {
	h := newHarness(t)
	h.mustJSON("items", "add", "zelda-botw", "--folder", "1")
	h.mustJSON("items", "add", "mario-kart", "--folder", "1")

	res := h.mustJSON("find", "zelda").(map[string]any)
	items := res["items"].([]any)
	assert.Equal(t, len(items), 1)
	assert.Equal(t, items[0].(map[string]any)["gameId"], "zelda-botw")
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.mustJSON("folders", "create", "Extra")
	h.mustJSON("items", "add", "g1", "--folder", "4")

	_, _, err := h.run("reset")
	assert.Assert(t, err != nil)

	out := h.mustJSON("reset", "--yes").(map[string]any)
	assert.Equal(t, len(out["folders"].([]any)), 3)

	rows := h.mustJSON("folders", "list").([]any)
	assert.Equal(t, len(rows), 3)
	assert.Equal(t, rows[0].(map[string]any)["id"], float64(1))
}

func TestFind_PickSingleMatch(t *testing.T) {
	h := newHarness(t)
	h.mustJSON("items", "add", "zelda-botw", "--folder", "1")
	h.mustJSON("items", "add", "mario-kart", "--folder", "1")

	stdout, _, err := h.run("find", "zelda", "--pick")
	assert.NilError(t, err)
	assert.Equal(t, stdout, "1\n")

	_, _, err = h.run("find", "metroid", "--pick")
	assert.Assert(t, err != nil)
}
