package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"smart_breeder/internal/models"
	"smart_breeder/internal/repository"
	"smart_breeder/internal/repository/db"
)

func TestInitDB_PreferencesRoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	defer conn.Close()

	repo := repository.NewPreferencesSQLite(conn)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on empty db: %v", err)
	}
	if got.ID != 0 {
		t.Fatalf("expected no row yet, got %+v", got)
	}

	if err := repo.SaveDeviceAddress(ctx, "10.0.0.7"); err != nil {
		t.Fatalf("SaveDeviceAddress() error = %v", err)
	}
	settings := models.Settings{UpdateIntervalMs: 10000, DarkMode: true}
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	betta := &models.SpeciesProfile{ID: "2", Name: "Betta Fish", IdealPhMin: 6.5, IdealPhMax: 7.5, IdealTempMin: 26.5, IdealTempMax: 30.5}
	if err := repo.SaveSelectedSpecies(ctx, betta); err != nil {
		t.Fatalf("SaveSelectedSpecies() error = %v", err)
	}

	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != 1 || got.DeviceAddress != "10.0.0.7" || got.Settings != settings {
		t.Fatalf("Load() = %+v", got)
	}
	if got.SelectedSpecies == nil || *got.SelectedSpecies != *betta {
		t.Fatalf("selected = %+v, want %+v", got.SelectedSpecies, betta)
	}

	if err := repo.SaveSelectedSpecies(ctx, nil); err != nil {
		t.Fatalf("clearing selection: %v", err)
	}
	got, _ = repo.Load(ctx)
	if got.SelectedSpecies != nil || got.DeviceAddress != "10.0.0.7" {
		t.Fatalf("clearing selection touched other columns: %+v", got)
	}
}
