package models

// SpeciesProfile is a named set of ideal ranges and default actuator flags.
// Invariant: IdealPhMin <= IdealPhMax and IdealTempMin <= IdealTempMax.
type SpeciesProfile struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	IdealPhMin   float64 `json:"idealPhMin" yaml:"idealPhMin"`
	IdealPhMax   float64 `json:"idealPhMax" yaml:"idealPhMax"`
	IdealTempMin float64 `json:"idealTempMin" yaml:"idealTempMin"`
	IdealTempMax float64 `json:"idealTempMax" yaml:"idealTempMax"`
	WaterFlow    bool    `json:"waterFlow" yaml:"waterFlow"`
	Rain         bool    `json:"rain" yaml:"rain"`
	Description  string  `json:"description" yaml:"description"`
}

// Valid reports whether both ranges are ordered.
func (p SpeciesProfile) Valid() bool {
	return p.IdealPhMin <= p.IdealPhMax && p.IdealTempMin <= p.IdealTempMax
}

// PHInRange reports whether ph falls inside the ideal pH band (inclusive).
func (p SpeciesProfile) PHInRange(ph float64) bool {
	return ph >= p.IdealPhMin && ph <= p.IdealPhMax
}

// TempInRange reports whether temp falls inside the ideal temperature band (inclusive).
func (p SpeciesProfile) TempInRange(temp float64) bool {
	return temp >= p.IdealTempMin && temp <= p.IdealTempMax
}
