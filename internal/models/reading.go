package models

// DeviceReading is one snapshot of sensors and relay actuators reported by
// GET /api/status. Relay fields missing from older firmware decode as false.
type DeviceReading struct {
	PH           float64 `json:"ph"`
	Temperature  float64 `json:"temperature"` // °C
	Fan          bool    `json:"fan"`
	AcidPump     bool    `json:"acidPump"`
	BasePump     bool    `json:"basePump"`
	WaterHeater  bool    `json:"waterHeater"`
	AirPump      bool    `json:"airPump"`
	WaterFlow    bool    `json:"waterFlow"`
	RainPump     bool    `json:"rainPump"`
	LightControl bool    `json:"lightControl"`
}

// Relay names accepted by POST /api/control.
const (
	RelayFan          = "fan"
	RelayAcidPump     = "acidPump"
	RelayBasePump     = "basePump"
	RelayWaterHeater  = "waterHeater"
	RelayAirPump      = "airPump"
	RelayWaterFlow    = "waterFlow"
	RelayRainPump     = "rainPump"
	RelayLightControl = "lightControl"
)

// RelayNames lists every controllable relay in display order.
var RelayNames = []string{
	RelayFan,
	RelayAcidPump,
	RelayBasePump,
	RelayWaterHeater,
	RelayAirPump,
	RelayWaterFlow,
	RelayRainPump,
	RelayLightControl,
}

// IsRelayName reports whether name is a known relay key.
func IsRelayName(name string) bool {
	for _, r := range RelayNames {
		if r == name {
			return true
		}
	}
	return false
}

// Relays returns the relay states keyed by relay name.
func (r DeviceReading) Relays() map[string]bool {
	return map[string]bool{
		RelayFan:          r.Fan,
		RelayAcidPump:     r.AcidPump,
		RelayBasePump:     r.BasePump,
		RelayWaterHeater:  r.WaterHeater,
		RelayAirPump:      r.AirPump,
		RelayWaterFlow:    r.WaterFlow,
		RelayRainPump:     r.RainPump,
		RelayLightControl: r.LightControl,
	}
}

// ChartPoint is derived from a DeviceReading at poll time.
type ChartPoint struct {
	Time        string  `json:"time"` // wall clock, "15:04:05"
	PH          float64 `json:"ph"`
	Temperature float64 `json:"temperature"`
}

// ConnectionStatus reflects the outcome of the latest poll attempt.
type ConnectionStatus struct {
	Connected  bool   `json:"connected"`
	LastUpdate string `json:"lastUpdate"` // RFC3339, empty until the first success
}
