package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"smart_breeder/internal/models"
	"smart_breeder/internal/species"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock advances one second per call.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestRecordReading_ChartIsBounded(t *testing.T) {
	s := New(Options{Now: fixedClock()})
	for i := 1; i <= 25; i++ {
		s.RecordReading(models.DeviceReading{PH: float64(i), Temperature: 20})
	}

	snap := s.Snapshot()
	require.Len(t, snap.Chart, DefaultChartCapacity)
	for i, p := range snap.Chart {
		assert.Equal(t, float64(i+6), p.PH, "point %d", i)
	}
	assert.Equal(t, "10:00:06", snap.Chart[0].Time)
	assert.Equal(t, "10:00:25", snap.Chart[19].Time)
	assert.True(t, snap.Status.Connected)
	assert.Equal(t, 25.0, snap.Reading.PH)
}

func TestRecordReading_CustomCapacity(t *testing.T) {
	s := New(Options{ChartCapacity: 3})
	for i := 0; i < 5; i++ {
		s.RecordReading(models.DeviceReading{PH: float64(i)})
	}
	chart := s.Snapshot().Chart
	require.Len(t, chart, 3)
	assert.Equal(t, []float64{2, 3, 4}, []float64{chart[0].PH, chart[1].PH, chart[2].PH})
}

func TestRecordFailure_KeepsLastReading(t *testing.T) {
	s := New(Options{Now: fixedClock()})
	s.RecordReading(models.DeviceReading{PH: 7.1, Temperature: 25})
	before := s.Snapshot().Status.LastUpdate

	assert.True(t, s.RecordFailure("Cannot reach the device at 192.168.0.111."))
	assert.False(t, s.RecordFailure("Cannot reach the device at 192.168.0.111."))

	snap := s.Snapshot()
	assert.False(t, snap.Status.Connected)
	assert.Equal(t, before, snap.Status.LastUpdate)
	require.NotNil(t, snap.Reading)
	assert.Equal(t, 7.1, snap.Reading.PH)
	assert.Len(t, snap.Chart, 1)
	assert.Equal(t, "Cannot reach the device at 192.168.0.111.", snap.Error)

	s.RecordReading(models.DeviceReading{PH: 7.2})
	assert.Empty(t, s.Snapshot().Error)
}

func TestSetSettings_ShallowMerge(t *testing.T) {
	s := New(Options{})
	dark := true
	s.SetSettings(models.SettingsPatch{DarkMode: &dark, Wifi: &models.WifiConfig{SSID: "tank", Password: "pw"}})

	interval := 10000
	got := s.SetSettings(models.SettingsPatch{UpdateIntervalMs: &interval})

	assert.Equal(t, 10000, got.UpdateIntervalMs)
	assert.True(t, got.DarkMode)
	assert.Equal(t, "tank", got.Wifi.SSID)
	assert.Equal(t, got, s.Settings())
	assert.Equal(t, 10*time.Second, s.UpdateInterval())
}

func TestUpdateInterval_DefaultsWhenBelowMinimum(t *testing.T) {
	s := New(Options{})
	zero := 0
	s.SetSettings(models.SettingsPatch{UpdateIntervalMs: &zero})
	assert.Equal(t, 5*time.Second, s.UpdateInterval())
}

func TestSelectedSpecies_IsCopied(t *testing.T) {
	s := New(Options{})
	p := species.Default()[0]
	s.SetSelectedSpecies(&p)
	p.Name = "mutated"

	got := s.SelectedSpecies()
	require.NotNil(t, got)
	assert.Equal(t, "Goldfish", got.Name)

	s.SetSelectedSpecies(nil)
	assert.Nil(t, s.SelectedSpecies())
	assert.Nil(t, s.Snapshot().SelectedSpecies)
}

func TestSetSpeciesCatalog_RefreshesSelection(t *testing.T) {
	s := New(Options{})
	list := species.Default()
	s.SetSelectedSpecies(&list[0])

	list[0].IdealPhMin = 6.9
	s.SetSpeciesCatalog(list)

	assert.Equal(t, 6.9, s.SelectedSpecies().IdealPhMin)
	assert.Len(t, s.SpeciesCatalog(), 7)
}

func TestNotifications_SnapshotShowsLastFive(t *testing.T) {
	s := New(Options{})
	for i := 1; i <= 7; i++ {
		s.PushNotification(fmt.Sprintf("n%d", i))
	}
	assert.Equal(t, []string{"n3", "n4", "n5", "n6", "n7"}, s.Snapshot().Notifications)

	s.ClearNotifications()
	assert.Empty(t, s.Snapshot().Notifications)
}

func TestLogAction_NewestFirstBounded(t *testing.T) {
	s := New(Options{Now: fixedClock()})
	for i := 1; i <= 12; i++ {
		s.LogAction(fmt.Sprintf("a%d", i), i%2 == 0)
	}
	log := s.Snapshot().ActionLog
	require.Len(t, log, DefaultActionLogCapacity)
	assert.Equal(t, "a12", log[0].Action)
	assert.Equal(t, "a3", log[9].Action)
	assert.NotEqual(t, log[0].ID, log[1].ID)
}

func TestLastAction(t *testing.T) {
	s := New(Options{})
	assert.Nil(t, s.Snapshot().LastAction)
	s.SetLastAction("control", map[string]bool{"fan": true})
	la := s.Snapshot().LastAction
	require.NotNil(t, la)
	assert.Equal(t, "control", la.Type)
}

func TestLoadingCounter(t *testing.T) {
	s := New(Options{})
	s.BeginLoading()
	s.BeginLoading()
	s.EndLoading()
	assert.True(t, s.Snapshot().IsLoading)
	s.EndLoading()
	s.EndLoading()
	assert.False(t, s.Snapshot().IsLoading)
}

func TestHealth(t *testing.T) {
	gold := species.Default()[0] // pH 6.5-8.0, 27-31 °C
	cases := []struct {
		name     string
		reading  *models.DeviceReading
		selected *models.SpeciesProfile
		want     models.SystemHealth
	}{
		{"no reading", nil, &gold, models.HealthError},
		{"no species", &models.DeviceReading{PH: 7, Temperature: 28}, nil, models.HealthError},
		{"both in range", &models.DeviceReading{PH: 7, Temperature: 28}, &gold, models.HealthSuccess},
		{"boundaries inclusive", &models.DeviceReading{PH: 8, Temperature: 27}, &gold, models.HealthSuccess},
		{"ph only", &models.DeviceReading{PH: 7, Temperature: 20}, &gold, models.HealthWarning},
		{"temp only", &models.DeviceReading{PH: 9, Temperature: 28}, &gold, models.HealthWarning},
		{"neither", &models.DeviceReading{PH: 9, Temperature: 20}, &gold, models.HealthError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Health(tc.reading, tc.selected))
		})
	}
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	s := New(Options{})
	s.RecordReading(models.DeviceReading{PH: 7})
	snap := s.Snapshot()
	snap.Chart[0].PH = 1
	snap.Reading.PH = 1
	assert.Equal(t, 7.0, s.Snapshot().Chart[0].PH)
	assert.Equal(t, 7.0, s.Snapshot().Reading.PH)
}

func TestConcurrentWritersKeepCapacity(t *testing.T) {
	s := New(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RecordReading(models.DeviceReading{PH: float64(i)})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Snapshot().Chart, DefaultChartCapacity)
}

func TestChanged_ClosedByEveryMutation(t *testing.T) {
	s := New(Options{})

	ch := s.Changed()
	select {
	case <-ch:
		t.Fatal("channel closed before any mutation")
	default:
	}

	s.RecordReading(models.DeviceReading{PH: 7})
	select {
	case <-ch:
	default:
		t.Fatal("RecordReading did not signal a change")
	}

	next := s.Changed()
	assert.NotEqual(t, ch, next, "a fresh channel is handed out after a change")

	s.PushNotification("Connection lost")
	select {
	case <-next:
	default:
		t.Fatal("PushNotification did not signal a change")
	}

	// reads never signal
	idle := s.Changed()
	_ = s.Snapshot()
	_ = s.Settings()
	select {
	case <-idle:
		t.Fatal("a read signalled a change")
	default:
	}
}
