package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchLiteral(t *testing.T) {
	cfg, err := ParseCommando(DefaultYAML())
	if err != nil {
		t.Fatalf("ParseCommando(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultCommandoConfig()) {
		t.Errorf("embedded defaults differ from DefaultCommandoConfig():\n got %+v\nwant %+v", cfg, DefaultCommandoConfig())
	}
}

func TestParsePartialOverride(t *testing.T) {
	doc := []byte(`
difficulty:
  ramp_factor: 1.5
timing:
  spawn_every: 250ms
`)
	cfg, err := ParseCommando(doc)
	if err != nil {
		t.Fatalf("ParseCommando() failed: %v", err)
	}

	if cfg.Difficulty.RampFactor != 1.5 {
		t.Errorf("RampFactor = %v, expected 1.5", cfg.Difficulty.RampFactor)
	}
	if cfg.Timing.SpawnEvery != 250*time.Millisecond {
		t.Errorf("SpawnEvery = %v, expected 250ms", cfg.Timing.SpawnEvery)
	}
	// Untouched keys keep defaults
	if cfg.Difficulty.RampMax != 6 {
		t.Errorf("RampMax = %v, expected default 6", cfg.Difficulty.RampMax)
	}
	if cfg.Cannon.X != 5 {
		t.Errorf("Cannon.X = %v, expected default 5", cfg.Cannon.X)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"shrinking ramp", "difficulty:\n  ramp_factor: 0.5\n"},
		{"no bullet variants", "bullets:\n  variants: []\n"},
		{"inverted aim range", "cannon:\n  min_y: 90\n  max_y: 10\n"},
		{"zero collision period", "timing:\n  collision_every: 0s\n"},
		{"cannon off playfield", "cannon:\n  x: 150\n"},
		{"aim range above playfield", "cannon:\n  max_y: 120\n"},
		{"negative aim range", "cannon:\n  min_y: -5\n  start_y: 0\n"},
		{"spawn lanes off playfield", "enemies:\n  spawn_max_y: 120\n"},
		{"spawn column off playfield", "enemies:\n  spawn_x: 130\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCommando([]byte(tc.doc))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseCommando() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("timing:\n  survival_seconds: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCommando(path)
	if err != nil {
		t.Fatalf("LoadCommando() failed: %v", err)
	}
	if cfg.Timing.SurvivalSeconds != 30 {
		t.Errorf("SurvivalSeconds = %d, expected 30", cfg.Timing.SurvivalSeconds)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := LoadCommando(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("LoadCommando() should fail for a missing custom path")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	// Nothing on disk: embedded defaults
	cfg, err := LoadCommando("")
	if err != nil {
		t.Fatalf("LoadCommando() failed: %v", err)
	}
	if cfg.Timing.SurvivalSeconds != 60 {
		t.Errorf("SurvivalSeconds = %d, expected embedded 60", cfg.Timing.SurvivalSeconds)
	}

	// Local configs directory
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "commando.yaml"), []byte("timing:\n  survival_seconds: 45\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadCommando("")
	if cfg.Timing.SurvivalSeconds != 45 {
		t.Errorf("SurvivalSeconds = %d, expected local 45", cfg.Timing.SurvivalSeconds)
	}

	// User directory wins over local
	userDir := filepath.Join(home, ".arcade", "configs")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "commando.yaml"), []byte("timing:\n  survival_seconds: 90\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadCommando("")
	if cfg.Timing.SurvivalSeconds != 90 {
		t.Errorf("SurvivalSeconds = %d, expected user 90", cfg.Timing.SurvivalSeconds)
	}
}

func TestMarshalCommando(t *testing.T) {
	data, err := MarshalCommando(DefaultCommandoConfig())
	if err != nil {
		t.Fatalf("MarshalCommando() failed: %v", err)
	}
	cfg, err := ParseCommando(data)
	if err != nil {
		t.Fatalf("ParseCommando(marshaled) failed: %v", err)
	}
	if cfg.Timing.SpawnEvery != 800*time.Millisecond {
		t.Errorf("SpawnEvery = %v after re-parse, expected 800ms", cfg.Timing.SpawnEvery)
	}
}
