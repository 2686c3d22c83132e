// Package simulator is a stand-in tank controller. It serves the same REST API
// as the real device and drifts its sensor readings according to which relays
// are switched on.
package simulator

import (
	"context"
	"math"
	"sync"
	"time"

	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/species"
)

// ----------- Simulation constants -----------
const (
	AmbientC           = 25.0  // room temperature °C
	HeatCPerSec        = 0.05  // °C per second with the water heater on
	FanCoolCPerSec     = 0.04  // °C per second with the fan on
	AmbientDriftPerSec = 0.01  // °C per second toward ambient when idle
	NeutralPH          = 7.0
	DosePHPerSec       = 0.02  // pH per second with a dosing pump on
	PHDriftPerSec      = 0.002 // pH per second toward neutral when idle
)

type Options struct {
	InitialPH   float64
	InitialTemp float64
	Latency     time.Duration // added before every API response
}

// Device is safe for concurrent use.
type Device struct {
	log *logger.Logger

	mu        sync.Mutex
	reading   models.DeviceReading
	tempBias  float64
	species   *species.Descriptor
	wifi      models.WifiConfig
	latency   time.Duration
	updatedAt time.Time
}

func New(opts Options, log *logger.Logger) *Device {
	if opts.InitialPH == 0 {
		opts.InitialPH = NeutralPH
	}
	if opts.InitialTemp == 0 {
		opts.InitialTemp = AmbientC
	}
	return &Device{
		log:       log,
		reading:   models.DeviceReading{PH: opts.InitialPH, Temperature: opts.InitialTemp},
		latency:   opts.Latency,
		updatedAt: time.Now().UTC(),
	}
}

// SetLatency changes the delay added to every response.
func (d *Device) SetLatency(l time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = l
}

func (d *Device) Latency() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latency
}

// Reading returns the current state with the temperature calibration offset applied.
func (d *Device) Reading() models.DeviceReading {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := d.reading
	r.PH = round2(r.PH)
	r.Temperature = round2(r.Temperature + d.tempBias)
	return r
}

// Species returns the configured species, nil when automation is off.
func (d *Device) Species() *species.Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.species == nil {
		return nil
	}
	cp := *d.species
	return &cp
}

func (d *Device) Wifi() models.WifiConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wifi
}

// Run ticks at the given interval until ctx is canceled.
func (d *Device) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			d.mu.Lock()
			elapsed := now.Sub(d.updatedAt).Seconds()
			if elapsed >= 1 {
				d.step(elapsed)
				d.updatedAt = now.UTC()
			}
			d.mu.Unlock()
		}
	}
}

// step advances the readings by elapsed seconds. Callers hold d.mu.
func (d *Device) step(elapsed float64) {
	r := &d.reading

	switch {
	case r.WaterHeater && !r.Fan:
		r.Temperature += HeatCPerSec * elapsed
	case r.Fan && !r.WaterHeater:
		r.Temperature -= FanCoolCPerSec * elapsed
	case r.Fan && r.WaterHeater:
		r.Temperature += (HeatCPerSec - FanCoolCPerSec) * elapsed
	default:
		r.Temperature = approach(r.Temperature, AmbientC, AmbientDriftPerSec*elapsed)
	}

	switch {
	case r.AcidPump && !r.BasePump:
		r.PH -= DosePHPerSec * elapsed
	case r.BasePump && !r.AcidPump:
		r.PH += DosePHPerSec * elapsed
	default:
		r.PH = approach(r.PH, NeutralPH, PHDriftPerSec*elapsed)
	}
	r.PH = math.Max(0, math.Min(14, r.PH))
}

// setRelay applies one named relay. Callers hold d.mu.
func (d *Device) setRelay(name string, on bool) {
	r := &d.reading
	switch name {
	case models.RelayFan:
		r.Fan = on
	case models.RelayAcidPump:
		r.AcidPump = on
	case models.RelayBasePump:
		r.BasePump = on
	case models.RelayWaterHeater:
		r.WaterHeater = on
	case models.RelayAirPump:
		r.AirPump = on
	case models.RelayWaterFlow:
		r.WaterFlow = on
	case models.RelayRainPump:
		r.RainPump = on
	case models.RelayLightControl:
		r.LightControl = on
	}
}

// helpers

// approach moves v toward target by at most step.
func approach(v, target, step float64) float64 {
	if v > target {
		return math.Max(v-step, target)
	}
	return math.Min(v+step, target)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
