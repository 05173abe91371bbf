// Package pathogen models UV susceptibility of microorganisms and computes
// survival fractions and equivalent air changes from UV from a fluence dose.
package pathogen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

// row mirrors one line of the wavelength-resolved disinfection CSV.
type row struct {
	Species           string  `csv:"Species"`
	Strain            string  `csv:"Strain"`
	WavelengthNM      float64 `csv:"wavelength [nm]"`
	K1                float64 `csv:"k1 [cm2/mJ]"`
	K2                float64 `csv:"k2 [cm2/mJ]"`
	PercentResistant  float64 `csv:"% resistant"`
}

// Parameters holds the Bunsen-Roscoe two-population model parameters for a
// species at a single wavelength.
type Parameters struct {
	WavelengthNM     float64
	K1               float64 // cm^2/mJ, susceptible-population rate constant
	K2               float64 // cm^2/mJ, resistant-population rate constant
	PercentResistant float64 // 0-100
}

// clampK1 and clampK2 match the original dataset's bounds: k1 must stay
// strictly positive (non-positive values become 1e-6), k2 may be zero.
func clampK1(k1 float64) float64 {
	if k1 <= 0 {
		return 1e-6
	}
	return k1
}

func clampK2(k2 float64) float64 {
	if k2 < 0 {
		return 0
	}
	return k2
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Table indexes Parameters by species, keeping only the first strain
// encountered per species, across all of that strain's wavelength rows.
type Table struct {
	bySpecies map[string]string       // species -> retained strain
	points    map[string][]Parameters // species -> wavelength-sorted parameters
}

// LoadTable parses a wavelength-resolved disinfection CSV (columns Species,
// Strain, "wavelength [nm]", "k1 [cm2/mJ]", "k2 [cm2/mJ]", "% resistant").
// For each species, only rows belonging to the first strain encountered are
// retained; later strains for the same species are ignored. Rows with an
// empty Species or Strain are skipped; rows are not checked for a missing
// wavelength or k1.
func LoadTable(csvData []byte) (*Table, error) {
	var rows []row
	if err := gocsv.UnmarshalBytes(csvData, &rows); err != nil {
		return nil, fmt.Errorf("pathogen: decoding disinfection table: %w", err)
	}

	tbl := &Table{
		bySpecies: make(map[string]string),
		points:    make(map[string][]Parameters),
	}

	for _, r := range rows {
		species := strings.TrimSpace(r.Species)
		strain := strings.TrimSpace(r.Strain)
		if species == "" || strain == "" {
			continue
		}

		if retained, ok := tbl.bySpecies[species]; ok {
			if retained != strain {
				continue
			}
		} else {
			tbl.bySpecies[species] = strain
		}

		tbl.points[species] = append(tbl.points[species], Parameters{
			WavelengthNM:     r.WavelengthNM,
			K1:               clampK1(r.K1),
			K2:               clampK2(r.K2),
			PercentResistant: clampPercent(r.PercentResistant),
		})
	}

	for species := range tbl.points {
		sort.Slice(tbl.points[species], func(i, j int) bool {
			return tbl.points[species][i].WavelengthNM < tbl.points[species][j].WavelengthNM
		})
	}

	return tbl, nil
}

// ParametersAt returns the interpolated Bunsen-Roscoe parameters for species
// at wavelengthNM, linearly interpolating between the two nearest stored
// wavelengths and clamping to the boundary values outside the data range.
func (t *Table) ParametersAt(species string, wavelengthNM float64) (Parameters, error) {
	points, ok := t.points[species]
	if !ok || len(points) == 0 {
		return Parameters{}, fmt.Errorf("pathogen: unknown species %q", species)
	}

	if wavelengthNM <= points[0].WavelengthNM {
		return points[0], nil
	}
	last := points[len(points)-1]
	if wavelengthNM >= last.WavelengthNM {
		return last, nil
	}

	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if wavelengthNM >= a.WavelengthNM && wavelengthNM <= b.WavelengthNM {
			frac := (wavelengthNM - a.WavelengthNM) / (b.WavelengthNM - a.WavelengthNM)
			return Parameters{
				WavelengthNM:     wavelengthNM,
				K1:               clampK1(lerp(a.K1, b.K1, frac)),
				K2:               clampK2(lerp(a.K2, b.K2, frac)),
				PercentResistant: clampPercent(lerp(a.PercentResistant, b.PercentResistant, frac)),
			}, nil
		}
	}
	return last, nil
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Species lists the species present in the table, sorted.
func (t *Table) Species() []string {
	names := make([]string, 0, len(t.points))
	for species := range t.points {
		names = append(names, species)
	}
	sort.Strings(names)
	return names
}

// Wavelengths returns the wavelengths recorded for species, sorted.
func (t *Table) Wavelengths(species string) []float64 {
	points := t.points[species]
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.WavelengthNM
	}
	return out
}
