package settings

import (
	"context"
	"encoding/json"

	"github.com/mitchellh/mapstructure"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// Key is the fixed key of the settings record.
const Key = "settings"

// Defaults returns the built-in settings. Stored values are merged on top,
// so keys added here reach existing users without a migration.
func Defaults() model.Settings {
	return model.Settings{
		"locale":        "en",
		"currency":      "USD",
		"sortBy":        "title",
		"sortDir":       "asc",
		"theme":         "system",
		"confirmDelete": true,
		"defaultFolder": "",
	}
}

// Preferences is the typed view of the settings the CLI understands.
type Preferences struct {
	Locale        string `mapstructure:"locale"`
	Currency      string `mapstructure:"currency"`
	SortBy        string `mapstructure:"sortBy"`
	SortDir       string `mapstructure:"sortDir"`
	Theme         string `mapstructure:"theme"`
	ConfirmDelete bool   `mapstructure:"confirmDelete"`
	DefaultFolder string `mapstructure:"defaultFolder"`
}

// Decode maps a settings blob onto Preferences. Unknown keys are ignored.
func Decode(s model.Settings) (Preferences, error) {
	var prefs Preferences
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &prefs,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Preferences{}, err
	}
	if err := decoder.Decode(map[string]any(s)); err != nil {
		return Preferences{}, apperr.ErrInvalidArgument.WithInternal(err)
	}
	return prefs, nil
}

// Store persists the settings record.
type Store struct {
	db *storage.DB
}

// NewStore creates a Store backed by db.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

// Load returns the stored settings merged on top of Defaults.
func (s *Store) Load(ctx context.Context) (model.Settings, error) {
	var stored model.Settings
	err := s.db.View(ctx, func(tx *storage.Tx) error {
		raw, ok, err := tx.GetSetting(Key)
		if err != nil || !ok {
			return err
		}
		return json.Unmarshal(raw, &stored)
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return Defaults().Merge(stored), nil
}

// Save replaces the stored record with s. Callers merge before saving.
func (s *Store) Save(ctx context.Context, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return apperr.ErrInvalidArgument.WithInternal(err)
	}
	return s.db.Update(ctx, func(tx *storage.Tx) error {
		return tx.PutSetting(Key, raw)
	})
}

// Reset deletes the stored record and returns the defaults.
func (s *Store) Reset(ctx context.Context) (model.Settings, error) {
	err := s.db.Update(ctx, func(tx *storage.Tx) error {
		return tx.DeleteSetting(Key)
	})
	if err != nil {
		return nil, err
	}
	return Defaults(), nil
}

// FactoryReset drops the whole database behind db and returns the
// defaults for the caller to re-seed. The caller's reference to db is
// consumed; the drop fails while other references are open.
func FactoryReset(db *storage.DB) (model.Settings, error) {
	if err := db.Drop(); err != nil {
		return nil, err
	}
	return Defaults(), nil
}
