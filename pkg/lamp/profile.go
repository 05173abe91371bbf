// Package lamp models the angular intensity distribution of a germicidal
// lamp and loads named lamp profiles from JSON.
package lamp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

//go:embed profiles.json
var defaultProfilesJSON []byte

// MaxAngleDegrees is the domain of a profile's angular intensity samples;
// angles are measured from the lamp's forward axis.
const MaxAngleDegrees = 90.0

// rawProfile mirrors the on-disk JSON shape for a single lamp.
type rawProfile struct {
	Name               string             `json:"name"`
	WavelengthNM       float64            `json:"wavelength_nm"`
	ForwardIntensity   *float64           `json:"forward_intensity,omitempty"`
	IntensitySamples   map[string]float64 `json:"intensity_samples_at_angle_deg"`
	IntensitySamplesAlt map[string]float64 `json:"intensity_samples_at_phi_0deg,omitempty"`
}

// Profile is a lamp's angular intensity distribution: relative intensity as
// a function of angle from the forward axis, in [0, MaxAngleDegrees].
type Profile struct {
	Name             string
	WavelengthNM     float64
	ForwardIntensity float64

	angles      []float64
	intensities []float64
	curve       interp.PiecewiseLinear
}

// NewProfile builds a Profile from angle->intensity samples. Samples need
// not be pre-sorted. forwardIntensity, if non-nil, overrides the value
// implied by the angle-0 sample.
func NewProfile(name string, wavelengthNM float64, samples map[float64]float64, forwardIntensity *float64) (*Profile, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("lamp: profile %q has no intensity samples", name)
	}

	angles := make([]float64, 0, len(samples))
	for angle := range samples {
		angles = append(angles, angle)
	}
	sort.Float64s(angles)

	intensities := make([]float64, len(angles))
	for i, angle := range angles {
		intensities[i] = samples[angle]
	}

	p := &Profile{Name: name, WavelengthNM: wavelengthNM, angles: angles, intensities: intensities}

	if err := p.curve.Fit(angles, intensities); err != nil {
		return nil, fmt.Errorf("lamp: fitting profile %q: %w", name, err)
	}

	if forwardIntensity != nil {
		p.ForwardIntensity = *forwardIntensity
	} else {
		p.ForwardIntensity = p.IntensityAt(0)
	}

	return p, nil
}

// IntensityAt returns the relative intensity at angleDegrees, clamped to
// the range of the tabulated sample angles and linearly interpolated
// between the nearest samples.
func (p *Profile) IntensityAt(angleDegrees float64) float64 {
	clamped := angleDegrees
	if clamped < p.angles[0] {
		clamped = p.angles[0]
	}
	if clamped > p.angles[len(p.angles)-1] {
		clamped = p.angles[len(p.angles)-1]
	}
	return p.curve.Predict(clamped)
}

// UnitProfile returns a flat, isotropic profile (relative intensity 1.0 at
// every angle) for callers that need to fall back to an unweighted angular
// factor when a lamp type is not found in a Table.
func UnitProfile() *Profile {
	forward := 1.0
	p, err := NewProfile("unit", 0, map[float64]float64{0: 1.0, MaxAngleDegrees: 1.0}, &forward)
	if err != nil {
		// Construction from a fixed, valid literal sample set cannot fail.
		panic(err)
	}
	return p
}

// Table is a named collection of lamp profiles.
type Table struct {
	profiles map[string]*Profile
}

// DefaultTable parses the profiles embedded in the module (ushio_b1,
// aerolamp, beacon).
func DefaultTable() (*Table, error) {
	return LoadTable(defaultProfilesJSON)
}

// LoadTable parses a lamp profile table from JSON of the shape produced by
// profiles.json: a map of lamp id to profile definition.
func LoadTable(data []byte) (*Table, error) {
	var raw map[string]rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("lamp: decoding profile table: %w", err)
	}

	tbl := &Table{profiles: make(map[string]*Profile, len(raw))}
	for id, rp := range raw {
		samples := rp.IntensitySamples
		if samples == nil {
			samples = rp.IntensitySamplesAlt
		}
		if samples == nil {
			return nil, fmt.Errorf("lamp: profile %q has no intensity sample table", id)
		}

		byAngle := make(map[float64]float64, len(samples))
		for angleStr, intensity := range samples {
			var angle float64
			if _, err := fmt.Sscanf(angleStr, "%f", &angle); err != nil {
				return nil, fmt.Errorf("lamp: profile %q has non-numeric angle key %q: %w", id, angleStr, err)
			}
			byAngle[angle] = intensity
		}

		profile, err := NewProfile(rp.Name, rp.WavelengthNM, byAngle, rp.ForwardIntensity)
		if err != nil {
			return nil, err
		}
		tbl.profiles[id] = profile
	}
	return tbl, nil
}

// Get returns the named lamp profile.
func (t *Table) Get(id string) (*Profile, error) {
	profile, ok := t.profiles[id]
	if !ok {
		return nil, fmt.Errorf("lamp: unknown lamp type %q", id)
	}
	return profile, nil
}

// Names lists the lamp ids in the table, sorted, for introspection (e.g. a
// CLI listing available lamp types).
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.profiles))
	for id := range t.profiles {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}
