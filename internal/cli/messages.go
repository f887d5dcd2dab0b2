package cli

import "fmt"

// messages maps locale → key → format string. Lookups fall back to
// English, then to the key itself.
var messages = map[string]map[string]string{
	"en": {
		"folder.created":   "Created folder %d %q\n",
		"folder.renamed":   "Renamed folder %d to %q\n",
		"folder.deleted":   "Deleted folder %d and %d item(s)\n",
		"folder.emptied":   "Moved %d item(s) to the trash\n",
		"folder.none":      "No folders\n",
		"item.added":       "Added %s to folder %d at position %d\n",
		"item.moved":       "Moved item %d to folder %d at position %d\n",
		"item.reordered":   "Moved item %d to position %d\n",
		"item.trashed":     "Moved item %d to the trash\n",
		"item.restored":    "Restored item %d at position %d\n",
		"item.purged":      "Deleted item %d\n",
		"item.toggled.on":  "Added %s to folder %d\n",
		"item.toggled.off": "Moved %s to the trash\n",
		"items.none":       "No items\n",
		"trash.purged":     "Deleted %d trashed item(s)\n",
		"trash.empty":      "Trash is empty\n",
		"settings.saved":   "Settings saved\n",
		"settings.reset":   "Settings reset to defaults\n",
		"export.done":      "Exported %d item(s) in %d folder(s) to %s\n",
		"export.clipboard": "Copied %d item(s) in %d folder(s) to the clipboard\n",
		"import.done":      "Imported %d item(s), skipped %d, created %d folder(s)\n",
		"find.none":        "Nothing matches %q\n",
		"doctor.ok":        "No problems found\n",
		"reset.done":       "Database dropped and re-seeded with %d folder(s)\n",
		"confirm.required": "refusing to %s without --yes",
	},
	"de": {
		"folder.created":   "Ordner %d %q angelegt\n",
		"folder.renamed":   "Ordner %d in %q umbenannt\n",
		"folder.deleted":   "Ordner %d und %d Eintrag/Einträge gelöscht\n",
		"folder.emptied":   "%d Eintrag/Einträge in den Papierkorb verschoben\n",
		"folder.none":      "Keine Ordner\n",
		"item.added":       "%s zu Ordner %d an Position %d hinzugefügt\n",
		"item.moved":       "Eintrag %d nach Ordner %d an Position %d verschoben\n",
		"item.reordered":   "Eintrag %d an Position %d verschoben\n",
		"item.trashed":     "Eintrag %d in den Papierkorb verschoben\n",
		"item.restored":    "Eintrag %d an Position %d wiederhergestellt\n",
		"item.purged":      "Eintrag %d endgültig gelöscht\n",
		"item.toggled.on":  "%s zu Ordner %d hinzugefügt\n",
		"item.toggled.off": "%s in den Papierkorb verschoben\n",
		"items.none":       "Keine Einträge\n",
		"trash.purged":     "%d Eintrag/Einträge aus dem Papierkorb gelöscht\n",
		"trash.empty":      "Papierkorb ist leer\n",
		"settings.saved":   "Einstellungen gespeichert\n",
		"settings.reset":   "Einstellungen zurückgesetzt\n",
		"export.done":      "%d Eintrag/Einträge in %d Ordner(n) nach %s exportiert\n",
		"export.clipboard": "%d Eintrag/Einträge in %d Ordner(n) in die Zwischenablage kopiert\n",
		"import.done":      "%d Eintrag/Einträge importiert, %d übersprungen, %d Ordner angelegt\n",
		"find.none":        "Keine Treffer für %q\n",
		"doctor.ok":        "Keine Probleme gefunden\n",
		"reset.done":       "Datenbank gelöscht und mit %d Ordner(n) neu angelegt\n",
		"confirm.required": "%s nur mit --yes",
	},
}

// msg formats the message for key in locale.
func msg(locale, key string, args ...any) string {
	format, ok := messages[locale][key]
	if !ok {
		format, ok = messages["en"][key]
	}
	if !ok {
		return key
	}
	return fmt.Sprintf(format, args...)
}
