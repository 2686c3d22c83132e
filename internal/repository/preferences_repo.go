package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smart_breeder/internal/models"
)

type PreferencesSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewPreferencesSQLite(db *sql.DB) *PreferencesSQLite {
	return &PreferencesSQLite{db: db, now: time.Now}
}

const (
	preferencesRowID = 1

	// Each save touches one column; a first save inserts defaults for the rest.
	upsertSettingsSQL = `
		INSERT INTO preferences (id, settings, selected_species, device_address, updated_at)
		VALUES (?, ?, NULL, '', ?)
		ON CONFLICT(id) DO UPDATE SET
			settings=excluded.settings,
			updated_at=excluded.updated_at
	`

	upsertSelectedSpeciesSQL = `
		INSERT INTO preferences (id, settings, selected_species, device_address, updated_at)
		VALUES (?, ?, ?, '', ?)
		ON CONFLICT(id) DO UPDATE SET
			selected_species=excluded.selected_species,
			updated_at=excluded.updated_at
	`

	upsertDeviceAddressSQL = `
		INSERT INTO preferences (id, settings, selected_species, device_address, updated_at)
		VALUES (?, ?, NULL, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			device_address=excluded.device_address,
			updated_at=excluded.updated_at
	`

	selectPreferencesSQL = `
		SELECT id, settings, selected_species, device_address, updated_at
		FROM preferences WHERE id=?
	`
)

func (r *PreferencesSQLite) utcNow() time.Time {
	return r.now().UTC()
}

func defaultSettingsJSON() (string, error) {
	b, err := json.Marshal(models.DefaultSettings())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveSettings writes the whole settings object as JSON.
func (r *PreferencesSQLite) SaveSettings(ctx context.Context, s models.Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertSettingsSQL, preferencesRowID, string(b), r.utcNow())
	return err
}

// SaveSelectedSpecies stores p as JSON, or NULL when the selection is cleared.
func (r *PreferencesSQLite) SaveSelectedSpecies(ctx context.Context, p *models.SpeciesProfile) error {
	var selected sql.NullString
	if p != nil {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding selected species: %w", err)
		}
		selected = sql.NullString{String: string(b), Valid: true}
	}
	defaults, err := defaultSettingsJSON()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertSelectedSpeciesSQL, preferencesRowID, defaults, selected, r.utcNow())
	return err
}

func (r *PreferencesSQLite) SaveDeviceAddress(ctx context.Context, address string) error {
	defaults, err := defaultSettingsJSON()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertDeviceAddressSQL, preferencesRowID, defaults, address, r.utcNow())
	return err
}

// Load fetches the preferences row (id=1). A missing row yields the zero
// value with default settings and a nil error.
func (r *PreferencesSQLite) Load(ctx context.Context) (models.Preferences, error) {
	row := r.db.QueryRowContext(ctx, selectPreferencesSQL, preferencesRowID)

	var (
		p            models.Preferences
		settingsJSON string
		selectedJSON sql.NullString
	)
	if err := row.Scan(&p.ID, &settingsJSON, &selectedJSON, &p.DeviceAddress, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{Settings: models.DefaultSettings()}, nil
		}
		return models.Preferences{}, err
	}

	p.Settings = models.DefaultSettings()
	if settingsJSON != "" {
		if err := json.Unmarshal([]byte(settingsJSON), &p.Settings); err != nil {
			return models.Preferences{}, fmt.Errorf("decoding settings: %w", err)
		}
	}
	if selectedJSON.Valid && selectedJSON.String != "" {
		var sp models.SpeciesProfile
		if err := json.Unmarshal([]byte(selectedJSON.String), &sp); err != nil {
			return models.Preferences{}, fmt.Errorf("decoding selected species: %w", err)
		}
		p.SelectedSpecies = &sp
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
