package simconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSplineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SplineConfig
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: SplineConfig{
				Mode: "sim", Profile: "clean", Connections: 4,
				Duration: time.Second, MSS: 1448, SampleRate: 1.0, ReportFormat: "md",
			},
			wantErr: false,
		},
		{
			name:    "invalid mode",
			cfg:     SplineConfig{Mode: "bogus", Profile: "clean", Connections: 1, Duration: time.Second, MSS: 1448, ReportFormat: "md"},
			wantErr: true,
		},
		{
			name:    "zero connections",
			cfg:     SplineConfig{Mode: "sim", Profile: "clean", Connections: 0, Duration: time.Second, MSS: 1448, ReportFormat: "md"},
			wantErr: true,
		},
		{
			name:    "unknown profile",
			cfg:     SplineConfig{Mode: "sim", Profile: "nonexistent", Connections: 1, Duration: time.Second, MSS: 1448, ReportFormat: "md"},
			wantErr: true,
		},
		{
			name:    "bad report format",
			cfg:     SplineConfig{Mode: "sim", Profile: "clean", Connections: 1, Duration: time.Second, MSS: 1448, ReportFormat: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAppliesDefaultsAndParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	body := []byte("mode: sim\nprofile: lossy-wifi\nconnections: 8\nduration: 30s\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MSS != 1448 {
		t.Fatalf("MSS default = %d, want 1448", cfg.MSS)
	}
	if cfg.SampleRate != 1.0 {
		t.Fatalf("SampleRate default = %v, want 1.0", cfg.SampleRate)
	}
	if cfg.Connections != 8 {
		t.Fatalf("Connections = %d, want 8", cfg.Connections)
	}
	if cfg.Duration != 30*time.Second {
		t.Fatalf("Duration = %v, want 30s", cfg.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a missing file")
	}
}

func TestLookupProfileUnknown(t *testing.T) {
	if _, err := LookupProfile("bogus"); err == nil {
		t.Fatal("expected an error for an unknown profile")
	}
}

func TestProfileNamesCoverAllPresets(t *testing.T) {
	for _, name := range ProfileNames() {
		if _, err := LookupProfile(name); err != nil {
			t.Fatalf("ProfileNames lists %q but LookupProfile fails: %v", name, err)
		}
	}
}
