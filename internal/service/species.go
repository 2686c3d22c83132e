package service

import (
	"context"
	"fmt"

	sb "smart_breeder"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/repository"
	"smart_breeder/internal/species"
	"smart_breeder/internal/store"
)

type SpeciesService struct {
	dev   Device
	store *store.Store
	prefs repository.PreferencesRepo
	log   *logger.Logger
}

// NewSpeciesService seeds the store with the built-in catalog when it is empty.
func NewSpeciesService(dev Device, st *store.Store, prefs repository.PreferencesRepo, log *logger.Logger) *SpeciesService {
	if len(st.SpeciesCatalog()) == 0 {
		st.SetSpeciesCatalog(species.Default())
	}
	return &SpeciesService{dev: dev, store: st, prefs: prefs, log: log}
}

func (s *SpeciesService) List() []models.SpeciesProfile {
	return s.store.SpeciesCatalog()
}

// Sync fetches the device catalog and merges it into the built-in one. On
// failure the current catalog is kept.
func (s *SpeciesService) Sync(ctx context.Context) sb.Result {
	s.store.BeginLoading()
	res := s.dev.ListSpecies(ctx)
	s.store.EndLoading()

	if !res.Success {
		s.store.PushNotification("Species sync failed: " + res.Message)
		return res
	}
	list, _ := res.Data.([]species.DeviceSpecies)
	merged := species.Merge(species.Default(), list)
	s.store.SetSpeciesCatalog(merged)
	if s.log != nil {
		s.log.Infow("species_synced", "device_entries", len(list), "catalog_size", len(merged))
	}
	res.Data = merged
	return res
}

// Select stores the selection (nil clears it), persists it and pushes the
// selected species to the device. A nil selection sends the {"type":0}
// sentinel. The local selection is kept even when the push fails.
func (s *SpeciesService) Select(ctx context.Context, id *string) (sb.Result, error) {
	var selected *models.SpeciesProfile
	if id != nil {
		p, ok := species.FindByID(s.store.SpeciesCatalog(), *id)
		if !ok {
			return sb.Result{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, *id)
		}
		selected = &p
	}

	s.store.SetSelectedSpecies(selected)
	if s.prefs != nil {
		if err := s.prefs.SaveSelectedSpecies(ctx, selected); err != nil {
			return sb.Result{}, fmt.Errorf("saving selected species: %w", err)
		}
	}

	payload := species.Payload(s.store.SelectedSpecies())
	s.store.BeginLoading()
	res := s.dev.SendSpeciesConfig(ctx, payload)
	s.store.EndLoading()

	action := "Species cleared"
	if selected != nil {
		action = "Species set to " + selected.Name
	}
	s.store.LogAction(action, res.Success)
	if !res.Success {
		s.store.PushNotification("Species configuration failed: " + res.Message)
		return res, nil
	}
	s.store.SetLastAction("species", payload)
	return res, nil
}
