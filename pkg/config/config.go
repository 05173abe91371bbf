// Package config loads run configuration for the simulator, merging
// embedded defaults with an optional user-supplied YAML override.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SamplerConfig mirrors pkg/sampler.Config for YAML decoding.
type SamplerConfig struct {
	NumPoints                 int     `yaml:"num_points"`
	DistanceThreshold          float64 `yaml:"distance_threshold"`
	NormalSimilarityThreshold float64 `yaml:"normal_similarity_threshold"`
	OversampleFactor           int     `yaml:"oversample_factor"`
	SurfaceOffset              float64 `yaml:"surface_offset"`
}

// PhotonConfig mirrors pkg/photon.Config for YAML decoding.
type PhotonConfig struct {
	MaxBounces         int     `yaml:"max_bounces"`
	PhotonsPerLight    int     `yaml:"photons_per_light"`
	KernelRadius       float64 `yaml:"kernel_radius"`
	Epsilon            float64 `yaml:"epsilon"`
	ClusteringDistance float64 `yaml:"clustering_distance"`
	UseRussianRoulette bool    `yaml:"use_russian_roulette"`
	RouletteThreshold  float64 `yaml:"roulette_threshold"`
	NumWorkers         int     `yaml:"num_workers"`
	Deterministic      bool    `yaml:"deterministic"`
	Seed               int64   `yaml:"seed"`
}

// Config holds all run configuration parameters.
type Config struct {
	Sampler         SamplerConfig `yaml:"sampler"`
	Photon          PhotonConfig  `yaml:"photon"`
	GridCellSize    float64       `yaml:"grid_cell_size"`
	ExposureSeconds float64       `yaml:"exposure_seconds"`
	PathogenSpecies []string      `yaml:"pathogen_species"`
}

// Load loads configuration from a YAML file, merged over embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing config file: %w", err)
		}
	}

	return cfg, nil
}
