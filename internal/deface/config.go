package deface

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the pipeline tuning parameters. It is resolved once per
// invocation and never mutated afterwards; concurrent invocations with
// different tunings never interfere.
type Config struct {
	// AirThreshold is the HU value at or below which a voxel counts as
	// air/exterior.
	AirThreshold int `yaml:"airThreshold"`

	// KernelDiameter is the diameter in pixels of the circular structuring
	// element used to grow the exterior mask into the body surface.
	KernelDiameter int `yaml:"kernelDiameter"`

	// Replacer is the substitution policy: "face", "air", or an integer HU
	// value. Resolved into a tagged Replacer via ParseReplacer.
	Replacer string `yaml:"replacer"`

	// FaceMinHU and FaceMaxHU are the exclusive bounds on tissue-sampled
	// candidate values.
	FaceMinHU int `yaml:"faceMinHU"`
	FaceMaxHU int `yaml:"faceMaxHU"`

	// Volumetric selects 26-connected whole-volume component selection
	// instead of the default per-slice 8-connected labeling.
	Volumetric bool `yaml:"volumetric"`
}

// DefaultConfig returns the tuning used by the original tool.
func DefaultConfig() Config {
	return Config{
		AirThreshold:   -800,
		KernelDiameter: 35,
		Replacer:       "face",
		FaceMinHU:      -125,
		FaceMaxHU:      50,
	}
}

// Validate checks the bounds the pipeline depends on. Replacer strings are
// not validated here; they recover via fallback in ParseReplacer.
func (c Config) Validate() error {
	if c.KernelDiameter < 1 {
		return &ConfigurationError{
			Field:  "kernelDiameter",
			Value:  fmt.Sprintf("%d", c.KernelDiameter),
			Reason: "must be at least 1",
		}
	}
	if c.FaceMinHU >= c.FaceMaxHU {
		return &ConfigurationError{
			Field:  "faceMinHU/faceMaxHU",
			Value:  fmt.Sprintf("%d..%d", c.FaceMinHU, c.FaceMaxHU),
			Reason: "lower bound must be below upper bound",
		}
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; it yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration as YAML, creating the directory if
// needed.
func SaveConfig(cfg Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
