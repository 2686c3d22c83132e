// Package store holds the dashboard's view of the device. All writes go
// through the named operations below; readers get copies via Snapshot.
package store

import (
	"sync"
	"time"

	"smart_breeder/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultChartCapacity      = 20
	DefaultActionLogCapacity  = 10
	DefaultNotificationsShown = 5

	chartTimeLayout = "15:04:05"
)

type Options struct {
	ChartCapacity      int
	ActionLogCapacity  int
	NotificationsShown int
	Now                func() time.Time // defaults to time.Now
}

type Store struct {
	opts Options

	mu            sync.RWMutex
	reading       *models.DeviceReading
	chart         []models.ChartPoint
	status        models.ConnectionStatus
	settings      models.Settings
	catalog       []models.SpeciesProfile
	selected      *models.SpeciesProfile
	notifications []string
	actionLog     []models.ActionLogEntry
	lastAction    *models.LastAction
	loading       int
	err           string

	// changed is closed and replaced on every mutation.
	changed chan struct{}
}

func New(opts Options) *Store {
	if opts.ChartCapacity <= 0 {
		opts.ChartCapacity = DefaultChartCapacity
	}
	if opts.ActionLogCapacity <= 0 {
		opts.ActionLogCapacity = DefaultActionLogCapacity
	}
	if opts.NotificationsShown <= 0 {
		opts.NotificationsShown = DefaultNotificationsShown
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		opts:     opts,
		chart:    make([]models.ChartPoint, 0, opts.ChartCapacity),
		settings: models.DefaultSettings(),
		changed:  make(chan struct{}),
	}
}

// Changed returns a channel that is closed by the next mutation. Callers
// fetch a fresh channel after each wake-up.
func (s *Store) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// notify wakes Changed waiters. Callers hold s.mu for writing.
func (s *Store) notify() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// RecordReading stores r, appends a chart point (evicting the oldest at
// capacity) and marks the device connected. Points are appended in the order
// calls arrive.
func (s *Store) RecordReading(r models.DeviceReading) {
	now := s.opts.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()

	s.reading = &r
	if len(s.chart) == s.opts.ChartCapacity {
		copy(s.chart, s.chart[1:])
		s.chart = s.chart[:len(s.chart)-1]
	}
	s.chart = append(s.chart, models.ChartPoint{
		Time:        now.Format(chartTimeLayout),
		PH:          r.PH,
		Temperature: r.Temperature,
	})
	s.status = models.ConnectionStatus{Connected: true, LastUpdate: now.Format(time.RFC3339)}
	s.err = ""
}

// RecordFailure marks the device disconnected and reports whether it was
// connected before. The last good reading and the chart are kept.
func (s *Store) RecordFailure(message string) (wasConnected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	wasConnected = s.status.Connected
	s.status.Connected = false
	s.err = message
	return wasConnected
}

// SetConnected folds a liveness probe result into the connection status
// without touching the reading.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.status.Connected = connected
	if connected {
		s.status.LastUpdate = s.opts.Now().Format(time.RFC3339)
		s.err = ""
	}
}

// SetSettings shallow-merges p and returns the resulting settings.
func (s *Store) SetSettings(p models.SettingsPatch) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.settings = s.settings.Apply(p)
	return s.settings
}

func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateInterval is the poll period derived from the current settings.
func (s *Store) UpdateInterval() time.Duration {
	ms := s.Settings().UpdateIntervalMs
	if ms < models.MinUpdateIntervalMs {
		ms = models.DefaultUpdateIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// SetSelectedSpecies stores a copy of p; nil clears the selection.
func (s *Store) SetSelectedSpecies(p *models.SpeciesProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	if p == nil {
		s.selected = nil
		return
	}
	cp := *p
	s.selected = &cp
}

func (s *Store) SelectedSpecies() *models.SpeciesProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	cp := *s.selected
	return &cp
}

// SetSpeciesCatalog replaces the catalog. A selected species that is still in
// the catalog picks up its new ranges.
func (s *Store) SetSpeciesCatalog(list []models.SpeciesProfile) {
	cp := make([]models.SpeciesProfile, len(list))
	copy(cp, list)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.catalog = cp
	if s.selected == nil {
		return
	}
	for _, p := range cp {
		if p.ID == s.selected.ID {
			sel := p
			s.selected = &sel
			return
		}
	}
}

func (s *Store) SpeciesCatalog() []models.SpeciesProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SpeciesProfile, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *Store) PushNotification(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.notifications = append(s.notifications, text)
}

func (s *Store) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.notifications = nil
}

// LogAction prepends an entry to the action log, dropping the oldest beyond capacity.
func (s *Store) LogAction(action string, success bool) models.ActionLogEntry {
	e := models.ActionLogEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Timestamp: s.opts.Now().Format(time.RFC3339),
		Success:   success,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.actionLog = append([]models.ActionLogEntry{e}, s.actionLog...)
	if len(s.actionLog) > s.opts.ActionLogCapacity {
		s.actionLog = s.actionLog[:s.opts.ActionLogCapacity]
	}
	return e
}

func (s *Store) SetLastAction(kind string, data any) {
	a := &models.LastAction{Type: kind, Data: data, Timestamp: s.opts.Now().Format(time.RFC3339)}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.lastAction = a
}

// BeginLoading and EndLoading bracket a device call. IsLoading stays true
// while any call is outstanding.
func (s *Store) BeginLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	s.loading++
}

func (s *Store) EndLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()
	if s.loading > 0 {
		s.loading--
	}
}

// Snapshot returns a deep copy of the state with the derived system health
// and only the most recent notifications.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.Snapshot{
		Status:        s.status,
		Health:        Health(s.reading, s.selected),
		Chart:         append([]models.ChartPoint{}, s.chart...),
		Settings:      s.settings,
		Species:       append([]models.SpeciesProfile{}, s.catalog...),
		Notifications: lastN(s.notifications, s.opts.NotificationsShown),
		ActionLog:     append([]models.ActionLogEntry{}, s.actionLog...),
		IsLoading:     s.loading > 0,
		Error:         s.err,
	}
	if s.reading != nil {
		r := *s.reading
		snap.Reading = &r
	}
	if s.selected != nil {
		p := *s.selected
		snap.SelectedSpecies = &p
	}
	if s.lastAction != nil {
		a := *s.lastAction
		snap.LastAction = &a
	}
	return snap
}

func lastN(list []string, n int) []string {
	if len(list) > n {
		list = list[len(list)-n:]
	}
	return append([]string{}, list...)
}

// Health is success when pH and temperature are both inside the selected
// species' ranges, warning when only one is, and error otherwise or when
// there is no reading or no selection.
func Health(r *models.DeviceReading, selected *models.SpeciesProfile) models.SystemHealth {
	if r == nil || selected == nil {
		return models.HealthError
	}
	ph := selected.PHInRange(r.PH)
	temp := selected.TempInRange(r.Temperature)
	switch {
	case ph && temp:
		return models.HealthSuccess
	case ph || temp:
		return models.HealthWarning
	default:
		return models.HealthError
	}
}
