// Package config holds the reasoning kernel's own tunables: the default
// collection aggregation rule, graph soft limits, CSM uncertainty
// defaults, and logging level. Configuration can be loaded from multiple
// sources, in order of precedence:
//  1. Environment variables (highest priority)
//  2. A YAML configuration file
//  3. Default values (lowest priority)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete kernel configuration.
type Config struct {
	Aggregation AggregationConfig `yaml:"aggregation"`
	Graph       GraphConfig       `yaml:"graph"`
	Uncertainty UncertaintyConfig `yaml:"uncertainty"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AggregationConfig selects the default Collection fold rule used by
// callers that do not specify one explicitly.
type AggregationConfig struct {
	// DefaultKind is one of "all", "any", "mixed".
	DefaultKind string `yaml:"default_kind"`
	// DefaultMixedThreshold is consulted only when DefaultKind is "mixed".
	DefaultMixedThreshold float64 `yaml:"default_mixed_threshold"`
}

// GraphConfig holds soft limits enforced by CausaloidGraph.AddCausaloid and
// AddWeightedEdge once attached via CausaloidGraph.WithConfig. A zero value
// for either field means unlimited.
type GraphConfig struct {
	MaxVertices int `yaml:"max_vertices"`
	MaxEdges    int `yaml:"max_edges"`
}

// UncertaintyConfig holds the default thresholds passed to a
// CsmEvaluable verdict when the caller supplies none.
type UncertaintyConfig struct {
	DefaultProbabilityThreshold float64 `yaml:"default_probability_threshold"`
	DefaultValueThreshold       float64 `yaml:"default_value_threshold"`
}

// LoggingConfig holds the configured minimum log level name. Nothing in
// this module reads it: telemetry.Default() always logs at LevelInfo.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
}

// Default returns the kernel's built-in defaults.
func Default() *Config {
	return &Config{
		Aggregation: AggregationConfig{
			DefaultKind:           "all",
			DefaultMixedThreshold: 0.5,
		},
		Graph: GraphConfig{
			MaxVertices: 100_000,
			MaxEdges:    1_000_000,
		},
		Uncertainty: UncertaintyConfig{
			DefaultProbabilityThreshold: 0.5,
			DefaultValueThreshold:       0.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FromEnv overlays DEEPCAUSALITY_* environment variables onto Default().
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

// Load overlays a YAML file at path onto Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("DEEPCAUSALITY_AGGREGATION_DEFAULT_KIND"); v != "" {
		c.Aggregation.DefaultKind = strings.ToLower(v)
	}
	if v := os.Getenv("DEEPCAUSALITY_AGGREGATION_DEFAULT_MIXED_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DEEPCAUSALITY_AGGREGATION_DEFAULT_MIXED_THRESHOLD: %w", err)
		}
		c.Aggregation.DefaultMixedThreshold = f
	}
	if v := os.Getenv("DEEPCAUSALITY_GRAPH_MAX_VERTICES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEEPCAUSALITY_GRAPH_MAX_VERTICES: %w", err)
		}
		c.Graph.MaxVertices = n
	}
	if v := os.Getenv("DEEPCAUSALITY_GRAPH_MAX_EDGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEEPCAUSALITY_GRAPH_MAX_EDGES: %w", err)
		}
		c.Graph.MaxEdges = n
	}
	if v := os.Getenv("DEEPCAUSALITY_UNCERTAINTY_DEFAULT_PROBABILITY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DEEPCAUSALITY_UNCERTAINTY_DEFAULT_PROBABILITY_THRESHOLD: %w", err)
		}
		c.Uncertainty.DefaultProbabilityThreshold = f
	}
	if v := os.Getenv("DEEPCAUSALITY_UNCERTAINTY_DEFAULT_VALUE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DEEPCAUSALITY_UNCERTAINTY_DEFAULT_VALUE_THRESHOLD: %w", err)
		}
		c.Uncertainty.DefaultValueThreshold = f
	}
	if v := os.Getenv("DEEPCAUSALITY_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}
