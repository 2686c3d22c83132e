package service

import (
	"context"
	"fmt"
	"sync"

	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/repository"
	"smart_breeder/internal/store"
)

type PreferencesService struct {
	dev   Device
	store *store.Store
	prefs repository.PreferencesRepo
	log   *logger.Logger

	mu               sync.Mutex
	onIntervalChange func()
}

func NewPreferencesService(dev Device, st *store.Store, prefs repository.PreferencesRepo, log *logger.Logger) *PreferencesService {
	return &PreferencesService{dev: dev, store: st, prefs: prefs, log: log}
}

// Restore loads persisted preferences into the store at startup. The device
// address is applied by whoever builds the device client.
func (s *PreferencesService) Restore(p models.Preferences) {
	settings := p.Settings
	wifi := settings.Wifi
	s.store.SetSettings(models.SettingsPatch{
		UpdateIntervalMs: &settings.UpdateIntervalMs,
		DarkMode:         &settings.DarkMode,
		Wifi:             &wifi,
	})
	s.store.SetSelectedSpecies(p.SelectedSpecies)
}

// OnIntervalChange registers fn to run after the update interval changes.
func (s *PreferencesService) OnIntervalChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onIntervalChange = fn
}

func (s *PreferencesService) Settings() models.Settings {
	return s.store.Settings()
}

// UpdateSettings validates and applies patch. A changed Wi-Fi configuration
// is pushed to the device first and nothing is stored if the device refuses it.
func (s *PreferencesService) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	if patch.UpdateIntervalMs != nil && *patch.UpdateIntervalMs < models.MinUpdateIntervalMs {
		return models.Settings{}, fmt.Errorf("%w: updateIntervalMs must be at least %d", ErrInvalidSettings, models.MinUpdateIntervalMs)
	}

	// An unchanged wifi block is a no-op, even when it is still empty.
	current := s.store.Settings()
	if patch.Wifi != nil && *patch.Wifi != current.Wifi {
		if patch.Wifi.SSID == "" {
			return models.Settings{}, fmt.Errorf("%w: wifi ssid is required", ErrInvalidSettings)
		}
		s.store.BeginLoading()
		res := s.dev.SendWifiConfig(ctx, *patch.Wifi)
		s.store.EndLoading()

		s.store.LogAction("Wi-Fi set to "+patch.Wifi.SSID, res.Success)
		if !res.Success {
			s.store.PushNotification("Wi-Fi configuration failed: " + res.Message)
			return models.Settings{}, fmt.Errorf("%w: %s", ErrDeviceRejected, res.Message)
		}
		s.store.SetLastAction("wifi", models.WifiConfig{SSID: patch.Wifi.SSID})
	}

	updated := s.store.SetSettings(patch)
	if s.prefs != nil {
		if err := s.prefs.SaveSettings(ctx, updated); err != nil {
			return updated, fmt.Errorf("saving settings: %w", err)
		}
	}

	if updated.UpdateIntervalMs != current.UpdateIntervalMs {
		s.mu.Lock()
		fn := s.onIntervalChange
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		if s.log != nil {
			s.log.Infow("update_interval_changed", "from_ms", current.UpdateIntervalMs, "to_ms", updated.UpdateIntervalMs)
		}
	}
	return updated, nil
}

// SetDeviceAddress retargets the device client; see device.Client.SetAddress
// for the errors it returns.
func (s *PreferencesService) SetDeviceAddress(ctx context.Context, address string) error {
	if err := s.dev.SetAddress(ctx, address); err != nil {
		return err
	}
	s.store.PushNotification("Device address set to " + address)
	return nil
}
