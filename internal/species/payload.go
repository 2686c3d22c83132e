package species

import "smart_breeder/internal/models"

// Descriptor is the full species configuration pushed to the device.
type Descriptor struct {
	Name      string `json:"name"`
	IdealPh   Range  `json:"idealPh"`
	IdealTemp Range  `json:"idealTemp"`
	WaterFlow bool   `json:"waterFlow"`
	Rain      bool   `json:"rain"`
}

// None is the sentinel that unselects the species and disables automation.
// It always encodes as {"type":0}.
type None struct {
	Type int `json:"type"`
}

// Payload returns the body for POST /api/species: a Descriptor for a profile,
// the None sentinel for nil.
func Payload(p *models.SpeciesProfile) any {
	if p == nil {
		return None{Type: 0}
	}
	return Descriptor{
		Name:      p.Name,
		IdealPh:   Range{Min: p.IdealPhMin, Max: p.IdealPhMax},
		IdealTemp: Range{Min: p.IdealTempMin, Max: p.IdealTempMax},
		WaterFlow: p.WaterFlow,
		Rain:      p.Rain,
	}
}
