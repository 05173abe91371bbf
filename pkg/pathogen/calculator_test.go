package pathogen

import (
	"math"
	"testing"
)

func TestCalculateSurvival_PureSusceptiblePopulation(t *testing.T) {
	// f=0 means k_bar == k1 and the Bunsen-Roscoe model reduces to
	// S = 10^(-k1*F).
	params := Parameters{WavelengthNM: 254, K1: 0.5, K2: 0.1, PercentResistant: 0}
	fluence := 50.0

	result := CalculateSurvival(params, fluence)

	wantSurvival := math.Pow(10, -params.K1*fluence)
	if math.Abs(result.Survival-wantSurvival) > 1e-12 {
		t.Errorf("Survival = %g, want %g", result.Survival, wantSurvival)
	}
	if math.Abs(result.EffectiveK-params.K1) > 1e-12 {
		t.Errorf("EffectiveK = %f, want k1 = %f when percent_resistant = 0", result.EffectiveK, params.K1)
	}
}

func TestCalculateSurvival_FullyResistantPopulation(t *testing.T) {
	// f=100 means k_bar == k2.
	params := Parameters{WavelengthNM: 254, K1: 0.5, K2: 0.1, PercentResistant: 100}
	result := CalculateSurvival(params, 50.0)
	if math.Abs(result.EffectiveK-params.K2) > 1e-12 {
		t.Errorf("EffectiveK = %f, want k2 = %f when percent_resistant = 100", result.EffectiveK, params.K2)
	}
}

func TestCalculateSurvival_EachUVFormula(t *testing.T) {
	params := Parameters{WavelengthNM: 254, K1: 0.5, K2: 0.1, PercentResistant: 20}
	fluence := 100.0

	result := CalculateSurvival(params, fluence)

	kBar := params.K1*0.8 + params.K2*0.2
	wantEach := kBar * fluence * 3.6
	if math.Abs(result.EachUV-wantEach) > 1e-9 {
		t.Errorf("EachUV = %f, want %f", result.EachUV, wantEach)
	}
}

func TestCalculateSurvival_ZeroFluenceMeansFullSurvival(t *testing.T) {
	params := Parameters{WavelengthNM: 254, K1: 0.5, K2: 0.1, PercentResistant: 10}
	result := CalculateSurvival(params, 0)
	if math.Abs(result.Survival-1.0) > 1e-12 {
		t.Errorf("Survival at zero fluence = %f, want 1.0", result.Survival)
	}
	if result.EachUV != 0 {
		t.Errorf("EachUV at zero fluence = %f, want 0", result.EachUV)
	}
}

func TestCalculateSurvival_IrradianceTimesExposureExample(t *testing.T) {
	// E=0.1, T=60 -> F=6; S=10^(-0.6)=0.2512..., eACH=0.1*6*3.6=2.16.
	params := Parameters{WavelengthNM: 254, K1: 0.1, K2: 0.1, PercentResistant: 0}
	result := CalculateSurvival(params, 0.1*60)

	wantSurvival := 0.251188643150958
	if math.Abs(result.Survival-wantSurvival) > 1e-9 {
		t.Errorf("Survival = %.15f, want %.15f", result.Survival, wantSurvival)
	}
	wantEach := 2.16
	if math.Abs(result.EachUV-wantEach) > 1e-9 {
		t.Errorf("EachUV = %f, want %f", result.EachUV, wantEach)
	}
}

func TestCalculateMultiWavelengthSurvival_CombinesAdditivelyAndMultiplicatively(t *testing.T) {
	csv := `Species,Strain,wavelength [nm],k1 [cm2/mJ],k2 [cm2/mJ],% resistant
Test,A,222,0.3,0.0,0
Test,A,254,0.5,0.0,0
`
	tbl, err := LoadTable([]byte(csv))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	contributions := []WavelengthFluence{
		{WavelengthNM: 222, FluenceJm2: 30},
		{WavelengthNM: 254, FluenceJm2: 20},
	}

	result, err := CalculateMultiWavelengthSurvival(tbl, "Test", contributions)
	if err != nil {
		t.Fatalf("CalculateMultiWavelengthSurvival: %v", err)
	}

	if math.Abs(result.TotalFluence-50) > 1e-9 {
		t.Errorf("TotalFluence = %f, want 50 (sum of contributions)", result.TotalFluence)
	}

	wantEach := result.PerWavelength[0].EachUV + result.PerWavelength[1].EachUV
	if math.Abs(result.TotalEachUV-wantEach) > 1e-9 {
		t.Errorf("TotalEachUV = %f, want sum of per-wavelength %f", result.TotalEachUV, wantEach)
	}

	wantSurvival := result.PerWavelength[0].Survival * result.PerWavelength[1].Survival
	if math.Abs(result.TotalSurvival-wantSurvival) > 1e-12 {
		t.Errorf("TotalSurvival = %g, want product of per-wavelength survivals %g", result.TotalSurvival, wantSurvival)
	}
}

func TestCalculateMultiWavelengthSurvival_UnknownSpecies(t *testing.T) {
	tbl, err := LoadTable([]byte("Species,Strain,wavelength [nm],k1 [cm2/mJ],k2 [cm2/mJ],% resistant\nA,B,254,0.5,0,0\n"))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	_, err = CalculateMultiWavelengthSurvival(tbl, "missing", []WavelengthFluence{{WavelengthNM: 254, FluenceJm2: 10}})
	if err == nil {
		t.Errorf("expected error for unknown species")
	}
}
