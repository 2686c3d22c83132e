package handlers

import (
	"context"
	"sync"

	sb "smart_breeder"
	"smart_breeder/internal/device"
	"smart_breeder/internal/models"
	"smart_breeder/internal/relay"
	"smart_breeder/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	mu        sync.Mutex
	snapshot  models.Snapshot
	refresh   sb.Result
	ping      sb.Result
	snapCalls int
	cleared   int
	changed   chan struct{}
}

func (m *mockMonitoring) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapCalls++
	return m.snapshot
}
func (m *mockMonitoring) Changed() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.changed == nil {
		m.changed = make(chan struct{})
	}
	return m.changed
}
func (m *mockMonitoring) setSnapshot(s models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
	if m.changed != nil {
		close(m.changed)
	}
	m.changed = make(chan struct{})
}
func (m *mockMonitoring) Refresh(ctx context.Context) sb.Result { return m.refresh }
func (m *mockMonitoring) ApplyStatus(res sb.Result) {}
func (m *mockMonitoring) TestConnection(ctx context.Context) sb.Result { return m.ping }
func (m *mockMonitoring) ClearNotifications() { m.cleared++ }

type mockControl struct {
	result    sb.Result
	err       error
	stops     int
	lastSent  map[string]bool
	lastCalib device.CalibrationRequest
}

func (m *mockControl) SendControl(ctx context.Context, relays map[string]bool) (sb.Result, error) {
	m.lastSent = relays
	return m.result, m.err
}
func (m *mockControl) EmergencyStop(ctx context.Context) sb.Result {
	m.stops++
	return m.result
}
func (m *mockControl) Calibrate(ctx context.Context, req device.CalibrationRequest) (sb.Result, error) {
	m.lastCalib = req
	return m.result, m.err
}

type mockSpecies struct {
	list       []models.SpeciesProfile
	result     sb.Result
	err        error
	syncCalls  int
	selectArgs []*string
}

func (m *mockSpecies) List() []models.SpeciesProfile { return m.list }
func (m *mockSpecies) Sync(ctx context.Context) sb.Result {
	m.syncCalls++
	return m.result
}
func (m *mockSpecies) Select(ctx context.Context, id *string) (sb.Result, error) {
	m.selectArgs = append(m.selectArgs, id)
	return m.result, m.err
}

type mockPreferences struct {
	settings    models.Settings
	updateErr   error
	addressErr  error
	lastPatch   models.SettingsPatch
	lastAddress string
}

func (m *mockPreferences) Restore(p models.Preferences) {}
func (m *mockPreferences) Settings() models.Settings { return m.settings }
func (m *mockPreferences) OnIntervalChange(fn func()) {}
func (m *mockPreferences) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	m.lastPatch = patch
	if m.updateErr != nil {
		return models.Settings{}, m.updateErr
	}
	m.settings = m.settings.Apply(patch)
	return m.settings, nil
}
func (m *mockPreferences) SetDeviceAddress(ctx context.Context, address string) error {
	m.lastAddress = address
	return m.addressErr
}

type mockForwarder struct {
	resp    relay.Response
	lastReq relay.Request
	calls   int
}

func (m *mockForwarder) Forward(ctx context.Context, req relay.Request) relay.Response {
	m.calls++
	m.lastReq = req
	return m.resp
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, "", nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func newRelayRouter(fwd Forwarder) *gin.Engine {
	h := NewHandler(&service.Service{}, fwd, "", nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
