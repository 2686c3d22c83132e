// Package species holds the built-in fish catalog, merges it with the catalog
// reported by the device and builds the payloads for POST /api/species.
package species

import (
	_ "embed"
	"fmt"
	"strings"

	"smart_breeder/internal/models"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Default returns a fresh copy of the built-in catalog.
func Default() []models.SpeciesProfile {
	out, err := Parse(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("species: embedded catalog is invalid: %v", err))
	}
	return out
}

// Parse decodes a YAML catalog and checks the range invariants of every entry.
func Parse(data []byte) ([]models.SpeciesProfile, error) {
	var list []models.SpeciesProfile
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing species catalog: %w", err)
	}
	for _, p := range list {
		if !p.Valid() {
			return nil, fmt.Errorf("species %q: min must not exceed max", p.Name)
		}
	}
	return list, nil
}

// FindByID returns the profile with the given id from list.
func FindByID(list []models.SpeciesProfile, id string) (models.SpeciesProfile, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return models.SpeciesProfile{}, false
}

// FindByName matches case-insensitively, ignoring surrounding spaces.
func FindByName(list []models.SpeciesProfile, name string) (models.SpeciesProfile, bool) {
	for _, p := range list {
		if sameName(p.Name, name) {
			return p, true
		}
	}
	return models.SpeciesProfile{}, false
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Range is the {min,max} object used by the device for pH and temperature.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DeviceSpecies is one entry of GET /api/species/list. The firmware reports
// numeric ids, so ID is kept loosely typed until normalized.
type DeviceSpecies struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	IdealPh     *Range `json:"idealPh,omitempty"`
	IdealTemp   *Range `json:"idealTemp,omitempty"`
	WaterFlow   *bool  `json:"waterFlow,omitempty"`
	Rain        *bool  `json:"rain,omitempty"`
	Description string `json:"description,omitempty"`
}

// IDString renders the device id the way the built-in catalog spells ids.
func (d DeviceSpecies) IDString() string {
	return strings.TrimSpace(cast.ToString(d.ID))
}

// Merge overlays the device catalog onto defaults.
//
// An entry is matched by id, then by name. A match adopts the device's pH and
// temperature ranges when present and ordered; waterFlow and rain always keep
// the default's value. Device entries without a match are appended with both
// flags off. The defaults slice is not modified.
func Merge(defaults []models.SpeciesProfile, device []DeviceSpecies) []models.SpeciesProfile {
	out := make([]models.SpeciesProfile, len(defaults))
	copy(out, defaults)

	for _, d := range device {
		idx := matchIndex(out, d)
		if idx < 0 {
			if p, ok := fromDevice(d); ok {
				out = append(out, p)
			}
			continue
		}
		p := out[idx]
		if d.IdealPh != nil && d.IdealPh.Min <= d.IdealPh.Max {
			p.IdealPhMin, p.IdealPhMax = d.IdealPh.Min, d.IdealPh.Max
		}
		if d.IdealTemp != nil && d.IdealTemp.Min <= d.IdealTemp.Max {
			p.IdealTempMin, p.IdealTempMax = d.IdealTemp.Min, d.IdealTemp.Max
		}
		out[idx] = p
	}
	return out
}

func matchIndex(list []models.SpeciesProfile, d DeviceSpecies) int {
	if id := d.IDString(); id != "" {
		for i, p := range list {
			if p.ID == id {
				return i
			}
		}
	}
	if d.Name != "" {
		for i, p := range list {
			if sameName(p.Name, d.Name) {
				return i
			}
		}
	}
	return -1
}

func fromDevice(d DeviceSpecies) (models.SpeciesProfile, bool) {
	if d.Name == "" || d.IdealPh == nil || d.IdealTemp == nil {
		return models.SpeciesProfile{}, false
	}
	p := models.SpeciesProfile{
		ID:           d.IDString(),
		Name:         d.Name,
		IdealPhMin:   d.IdealPh.Min,
		IdealPhMax:   d.IdealPh.Max,
		IdealTempMin: d.IdealTemp.Min,
		IdealTempMax: d.IdealTemp.Max,
		Description:  d.Description,
	}
	if p.ID == "" {
		p.ID = d.Name
	}
	return p, p.Valid()
}
