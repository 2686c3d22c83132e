package service

import (
	"context"
	"errors"
	"time"

	sb "smart_breeder"
	"smart_breeder/internal/device"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/repository"
	"smart_breeder/internal/store"
)

var (
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrInvalidControl     = errors.New("invalid control command")
	ErrInvalidCalibration = errors.New("invalid calibration request: action must be ph7, ph4 or temp with an offset")
	ErrUnknownSpecies     = errors.New("unknown species")
	ErrDeviceRejected     = errors.New("device rejected the request")
)

// Device is the part of the device client the services drive.
type Device interface {
	GetStatus(ctx context.Context) sb.Result
	SendControl(ctx context.Context, relays map[string]bool) sb.Result
	SendSpeciesConfig(ctx context.Context, payload any) sb.Result
	SendWifiConfig(ctx context.Context, cfg models.WifiConfig) sb.Result
	Ping(ctx context.Context) sb.Result
	ListSpecies(ctx context.Context) sb.Result
	Calibrate(ctx context.Context, req device.CalibrationRequest) sb.Result
	SetAddress(ctx context.Context, address string) error
	Address() string
}

// Monitoring reads the device and exposes the client state.
type Monitoring interface {
	Snapshot() models.Snapshot
	Changed() <-chan struct{}
	Refresh(ctx context.Context) sb.Result
	ApplyStatus(res sb.Result)
	TestConnection(ctx context.Context) sb.Result
	ClearNotifications()
}

// Control drives the relays and sensor calibration.
type Control interface {
	SendControl(ctx context.Context, relays map[string]bool) (sb.Result, error)
	EmergencyStop(ctx context.Context) sb.Result
	Calibrate(ctx context.Context, req device.CalibrationRequest) (sb.Result, error)
}

// Species manages the catalog and the selected species.
type Species interface {
	List() []models.SpeciesProfile
	Sync(ctx context.Context) sb.Result
	Select(ctx context.Context, id *string) (sb.Result, error)
}

// Preferences covers settings and the device address, the state that
// survives a restart.
type Preferences interface {
	Restore(p models.Preferences)
	Settings() models.Settings
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error)
	SetDeviceAddress(ctx context.Context, address string) error
	OnIntervalChange(fn func())
}

type Service struct {
	Monitoring
	Control
	Species
	Preferences
}

type Options struct {
	// RefreshDelay is the grace period before re-reading status after a
	// control command. Defaults to 300ms.
	RefreshDelay time.Duration
}

const defaultRefreshDelay = 300 * time.Millisecond

func NewService(dev Device, st *store.Store, repos *repository.Repository, opts Options, log *logger.Logger) *Service {
	if opts.RefreshDelay <= 0 {
		opts.RefreshDelay = defaultRefreshDelay
	}
	monitoring := NewMonitoringService(dev, st, log.Component("monitoring"))
	return &Service{
		Monitoring:  monitoring,
		Control:     NewControlService(dev, st, monitoring, opts.RefreshDelay, log.Component("control")),
		Species:     NewSpeciesService(dev, st, repos.Preferences, log.Component("species")),
		Preferences: NewPreferencesService(dev, st, repos.Preferences, log.Component("preferences")),
	}
}
