package models

// SystemHealth summarises how the latest reading compares with the selected species.
type SystemHealth string

const (
	HealthSuccess SystemHealth = "success"
	HealthWarning SystemHealth = "warning"
	HealthError   SystemHealth = "error"
)

// ActionLogEntry is one row of the bounded action history shown next to the controls.
type ActionLogEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
}

// LastAction records the most recent successful device write.
type LastAction struct {
	Type      string `json:"type"` // control | species | wifi
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Snapshot is a read-only copy of the client state handed to the UI layer.
type Snapshot struct {
	Reading         *DeviceReading   `json:"deviceData"`
	Status          ConnectionStatus `json:"deviceStatus"`
	Health          SystemHealth     `json:"systemHealth"`
	Chart           []ChartPoint     `json:"chartData"`
	Settings        Settings         `json:"settings"`
	Species         []SpeciesProfile `json:"fishSpecies"`
	SelectedSpecies *SpeciesProfile  `json:"selectedSpecies"`
	Notifications   []string         `json:"notifications"`
	ActionLog       []ActionLogEntry `json:"actionLog"`
	LastAction      *LastAction      `json:"lastAction,omitempty"`
	IsLoading       bool             `json:"isLoading"`
	Error           string           `json:"error,omitempty"`
}
