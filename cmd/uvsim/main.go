// Command uvsim runs a UV germicidal irradiance and pathogen inactivation
// simulation against a scene file and prints the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quanta-uv/uvsim/pkg/config"
	"github.com/quanta-uv/uvsim/pkg/core"
	"github.com/quanta-uv/uvsim/pkg/lamp"
	"github.com/quanta-uv/uvsim/pkg/pathogen"
	"github.com/quanta-uv/uvsim/pkg/photon"
	"github.com/quanta-uv/uvsim/pkg/sampler"
	"github.com/quanta-uv/uvsim/pkg/scene"
	"github.com/quanta-uv/uvsim/pkg/sim"
)

// cliConfig holds all the flags this command accepts.
type cliConfig struct {
	ScenePath        string
	PathogenCSV      string
	ConfigPath       string
	OutputPath       string
	ListLampTypes    bool
	Help             bool
	CrossSectionX    float64
	CrossSectionGrid int
	UseCrossSection  bool
}

func main() {
	cfg := parseFlags()
	if cfg.Help {
		showHelp()
		return
	}

	lamps, err := lamp.DefaultTable()
	if err != nil {
		fmt.Printf("Error loading lamp profiles: %v\n", err)
		os.Exit(1)
	}

	if cfg.ListLampTypes {
		for _, name := range lamps.Names() {
			fmt.Println(name)
		}
		return
	}

	if cfg.ScenePath == "" {
		fmt.Println("Error: -scene is required")
		showHelp()
		os.Exit(1)
	}

	result, err := run(cfg, lamps)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeResult(cfg.OutputPath, result); err != nil {
		fmt.Printf("Error writing result: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg cliConfig, lamps *lamp.Table) (*sim.Result, error) {
	sceneData, err := os.ReadFile(cfg.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	sc, err := scene.Load(sceneData)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}

	runCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading run config: %w", err)
	}

	var measurementPoints []core.Vec3
	if cfg.UseCrossSection {
		measurementPoints, err = sampler.CrossSectionGrid(sc.Triangles, cfg.CrossSectionX, cfg.CrossSectionGrid)
		if err != nil {
			return nil, fmt.Errorf("building cross-section grid: %w", err)
		}
	}

	var pathogenTable *pathogen.Table
	if cfg.PathogenCSV != "" {
		csvData, err := os.ReadFile(cfg.PathogenCSV)
		if err != nil {
			return nil, fmt.Errorf("reading pathogen table: %w", err)
		}
		pathogenTable, err = pathogen.LoadTable(csvData)
		if err != nil {
			return nil, fmt.Errorf("loading pathogen table: %w", err)
		}
	}

	start := time.Now()
	req := sim.Request{
		Scene:             sc,
		LampTable:         lamps,
		PathogenTable:     pathogenTable,
		PathogenSpecies:   runCfg.PathogenSpecies,
		ExposureSeconds:   runCfg.ExposureSeconds,
		GridCellSize:      runCfg.GridCellSize,
		MeasurementPoints: measurementPoints,
		SamplerConfig: sampler.Config{
			NumPoints:                 runCfg.Sampler.NumPoints,
			DistanceThreshold:         runCfg.Sampler.DistanceThreshold,
			NormalSimilarityThreshold: runCfg.Sampler.NormalSimilarityThreshold,
			OversampleFactor:          runCfg.Sampler.OversampleFactor,
			SurfaceOffset:             runCfg.Sampler.SurfaceOffset,
		},
		PhotonConfig: photon.Config{
			MaxBounces:         runCfg.Photon.MaxBounces,
			PhotonsPerLight:    runCfg.Photon.PhotonsPerLight,
			KernelRadius:       runCfg.Photon.KernelRadius,
			Epsilon:            runCfg.Photon.Epsilon,
			ClusteringDistance: runCfg.Photon.ClusteringDistance,
			UseRussianRoulette: runCfg.Photon.UseRussianRoulette,
			RouletteThreshold:  runCfg.Photon.RouletteThreshold,
			NumWorkers:         runCfg.Photon.NumWorkers,
			Deterministic:      runCfg.Photon.Deterministic,
			Seed:               runCfg.Photon.Seed,
		},
	}

	if pathogenTable == nil {
		req.PathogenSpecies = nil
	}

	result, err := sim.Run(req)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Simulated %d measurement points in %v\n", len(result.Points), time.Since(start))
	return result, nil
}

func writeResult(path string, result *sim.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}

func parseFlags() cliConfig {
	cfg := cliConfig{}
	flag.StringVar(&cfg.ScenePath, "scene", "", "Path to scene JSON file (required)")
	flag.StringVar(&cfg.PathogenCSV, "pathogen-table", "", "Path to wavelength-resolved disinfection CSV")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to a run config YAML file (overrides embedded defaults)")
	flag.StringVar(&cfg.OutputPath, "output", "", "Path to write JSON result (default: stdout)")
	flag.BoolVar(&cfg.ListLampTypes, "list-lamps", false, "List available lamp profile types and exit")
	flag.BoolVar(&cfg.Help, "help", false, "Show help information")
	flag.BoolVar(&cfg.UseCrossSection, "cross-section", false, "Use a deterministic cross-section grid instead of random surface sampling")
	flag.Float64Var(&cfg.CrossSectionX, "cross-section-x", 0, "X plane for the cross-section grid (with -cross-section)")
	flag.IntVar(&cfg.CrossSectionGrid, "cross-section-grid-size", 20, "Grid resolution for the cross-section grid (with -cross-section)")
	flag.Parse()
	return cfg
}

func showHelp() {
	fmt.Println("uvsim - UV germicidal irradiance and pathogen inactivation simulator")
	fmt.Println("Usage: uvsim -scene <file> [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println(strings.Repeat(" ", 2) + "uvsim -scene room.json -pathogen-table disinfection.csv -output result.json")
}
