package service

import (
	"context"
	"sync"

	sb "smart_breeder"
	"smart_breeder/internal/device"
	"smart_breeder/internal/models"
)

// fakeDevice records every call and answers with canned results.
type fakeDevice struct {
	mu sync.Mutex

	status  sb.Result
	control sb.Result
	species sb.Result
	wifi    sb.Result
	ping    sb.Result
	list    sb.Result
	calib   sb.Result
	addrErr error

	statusCalls  int
	controlSent  []map[string]bool
	speciesSent  []any
	wifiSent     []models.WifiConfig
	calibSent    []device.CalibrationRequest
	addressesSet []string
}

func newFakeDevice() *fakeDevice {
	ok := sb.Result{Success: true, Message: "ok"}
	return &fakeDevice{
		status:  sb.Result{Success: true, Data: models.DeviceReading{PH: 7, Temperature: 28}},
		control: ok,
		species: ok,
		wifi:    ok,
		ping:    ok,
		list:    sb.Result{Success: true, Data: nil},
		calib:   ok,
	}
}

func (f *fakeDevice) GetStatus(context.Context) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return f.status
}

func (f *fakeDevice) SendControl(_ context.Context, relays map[string]bool) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controlSent = append(f.controlSent, relays)
	return f.control
}

func (f *fakeDevice) SendSpeciesConfig(_ context.Context, payload any) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speciesSent = append(f.speciesSent, payload)
	return f.species
}

func (f *fakeDevice) SendWifiConfig(_ context.Context, cfg models.WifiConfig) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wifiSent = append(f.wifiSent, cfg)
	return f.wifi
}

func (f *fakeDevice) Ping(context.Context) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ping
}

func (f *fakeDevice) ListSpecies(context.Context) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list
}

func (f *fakeDevice) Calibrate(_ context.Context, req device.CalibrationRequest) sb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calibSent = append(f.calibSent, req)
	return f.calib
}

func (f *fakeDevice) SetAddress(_ context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addrErr != nil {
		return f.addrErr
	}
	f.addressesSet = append(f.addressesSet, address)
	return nil
}

func (f *fakeDevice) Address() string { return "192.168.0.111" }

func (f *fakeDevice) statusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

// fakePrefs is an in-memory repository.PreferencesRepo.
type fakePrefs struct {
	saveErr  error
	settings []models.Settings
	selected []*models.SpeciesProfile
	address  []string
}

func (f *fakePrefs) Load(context.Context) (models.Preferences, error) {
	return models.Preferences{Settings: models.DefaultSettings()}, nil
}

func (f *fakePrefs) SaveSettings(_ context.Context, s models.Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.settings = append(f.settings, s)
	return nil
}

func (f *fakePrefs) SaveSelectedSpecies(_ context.Context, p *models.SpeciesProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.selected = append(f.selected, p)
	return nil
}

func (f *fakePrefs) SaveDeviceAddress(_ context.Context, address string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.address = append(f.address, address)
	return nil
}
