package deface

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.AirThreshold != -800 || cfg.KernelDiameter != 35 ||
		cfg.Replacer != "face" || cfg.FaceMinHU != -125 || cfg.FaceMaxHU != 50 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"minimal kernel", func(c *Config) { c.KernelDiameter = 1 }, true},
		{"zero kernel", func(c *Config) { c.KernelDiameter = 0 }, false},
		{"negative kernel", func(c *Config) { c.KernelDiameter = -3 }, false},
		{"inverted tissue bounds", func(c *Config) { c.FaceMinHU, c.FaceMaxHU = 50, -125 }, false},
		{"equal tissue bounds", func(c *Config) { c.FaceMinHU, c.FaceMaxHU = 40, 40 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ctdeface.yml")
	want := Config{
		AirThreshold:   -500,
		KernelDiameter: 21,
		Replacer:       "air",
		FaceMinHU:      -100,
		FaceMaxHU:      60,
		Volumetric:     true,
	}
	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	got, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if got != DefaultConfig() {
		t.Errorf("missing file yields %+v, want defaults", got)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(path, []byte("kernelDiameter: 11\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.KernelDiameter != 11 {
		t.Errorf("kernelDiameter = %d, want 11", got.KernelDiameter)
	}
	if got.AirThreshold != -800 || got.Replacer != "face" {
		t.Errorf("unset fields must keep defaults: %+v", got)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("kernelDiameter: [oops\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML must be reported")
	}
}
