package repository

import (
	"context"
	"database/sql"

	"smart_breeder/internal/models"
)

// PreferencesRepo persists what survives a restart: settings, the selected
// species and, in direct mode, the device address.
type PreferencesRepo interface {
	Load(ctx context.Context) (models.Preferences, error)
	SaveSettings(ctx context.Context, s models.Settings) error
	SaveSelectedSpecies(ctx context.Context, p *models.SpeciesProfile) error
	SaveDeviceAddress(ctx context.Context, address string) error
}

type Repository struct {
	Preferences PreferencesRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Preferences: NewPreferencesSQLite(db),
	}
}
