package models

import "time"

// Preferences is the single persisted row. ID is 0 when nothing was saved yet.
type Preferences struct {
	ID              int
	Settings        Settings
	SelectedSpecies *SpeciesProfile
	DeviceAddress   string // direct mode only; empty means use configuration
	UpdatedAt       time.Time
}
