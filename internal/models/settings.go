package models

const (
	DefaultUpdateIntervalMs = 5000
	MinUpdateIntervalMs     = 1000
)

type WifiConfig struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// Settings are user preferences; together with the selected species they are
// the only client state that survives a restart.
type Settings struct {
	UpdateIntervalMs int        `json:"updateIntervalMs"`
	DarkMode         bool       `json:"darkMode"`
	Wifi             WifiConfig `json:"wifi"`
}

// SettingsPatch is a partial Settings update. Nil fields are left untouched.
type SettingsPatch struct {
	UpdateIntervalMs *int        `json:"updateIntervalMs,omitempty"`
	DarkMode         *bool       `json:"darkMode,omitempty"`
	Wifi             *WifiConfig `json:"wifi,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{UpdateIntervalMs: DefaultUpdateIntervalMs}
}

// Apply shallow-merges p into s and returns the result.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.UpdateIntervalMs != nil {
		s.UpdateIntervalMs = *p.UpdateIntervalMs
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.Wifi != nil {
		s.Wifi = *p.Wifi
	}
	return s
}
