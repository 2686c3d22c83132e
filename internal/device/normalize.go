package device

import (
	"strings"

	"smart_breeder/internal/models"

	"github.com/spf13/cast"
)

// LooseBool coerces the relay values older firmware reports. "true", "on",
// "yes", "1" and any non-zero number are true; everything else, including
// missing values and unknown strings, is false.
func LooseBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "on", "yes", "1":
			return true
		default:
			return false
		}
	default:
		f, err := cast.ToFloat64E(v)
		return err == nil && f != 0
	}
}

// NormalizeReading builds a typed reading from a decoded /api/status body.
// Unparseable numbers become 0 and absent relays become false.
func NormalizeReading(raw map[string]any) models.DeviceReading {
	return models.DeviceReading{
		PH:           looseFloat(raw["ph"]),
		Temperature:  looseFloat(raw["temperature"]),
		Fan:          LooseBool(raw[models.RelayFan]),
		AcidPump:     LooseBool(raw[models.RelayAcidPump]),
		BasePump:     LooseBool(raw[models.RelayBasePump]),
		WaterHeater:  LooseBool(raw[models.RelayWaterHeater]),
		AirPump:      LooseBool(raw[models.RelayAirPump]),
		WaterFlow:    LooseBool(raw[models.RelayWaterFlow]),
		RainPump:     LooseBool(raw[models.RelayRainPump]),
		LightControl: LooseBool(raw[models.RelayLightControl]),
	}
}

func looseFloat(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}
