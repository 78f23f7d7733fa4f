package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/smctune/internal/control"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Controller != control.VariantClassical {
		t.Errorf("expected classical controller, got %s", cfg.Controller)
	}
	if cfg.Sim.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Fitness.TrackingThreshold != 0.1 {
		t.Errorf("expected tracking threshold 0.1, got %f", cfg.Fitness.TrackingThreshold)
	}
	if cfg.Fitness.PenaltyScale != 1000.0 {
		t.Errorf("expected penalty scale 1000, got %f", cfg.Fitness.PenaltyScale)
	}
	if cfg.PSO.Particles != 30 || cfg.PSO.Iterations != 150 {
		t.Errorf("unexpected PSO defaults: %+v", cfg.PSO)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateArity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Controller = control.VariantAdaptive // 5 gains, still 6 bounds
	if err := cfg.Validate(); err == nil {
		t.Error("expected arity mismatch error")
	}

	cfg.Bounds = AdaptiveBounds
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid adaptive config: %v", err)
	}
}

func TestValidateEmptyBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bounds = append([]Bound(nil), ClassicalBounds...)
	cfg.Bounds[2] = Bound{Min: 5, Max: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty bound")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tune.yaml")

	cfg := ForVariant(control.VariantSTA)
	cfg.PSO.Seed = 1234
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Controller != control.VariantSTA {
		t.Errorf("expected sta controller, got %s", loaded.Controller)
	}
	if loaded.PSO.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", loaded.PSO.Seed)
	}
	if len(loaded.Bounds) != 6 {
		t.Errorf("expected 6 bounds, got %d", len(loaded.Bounds))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(control.VariantClassical, "large")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.Theta1 != 0.3 {
		t.Errorf("expected theta1 0.3, got %f", cfg.InitState.Theta1)
	}

	if GetPreset(control.VariantClassical, "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent controller")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset(control.VariantClassical, "default")
	a.PSO.Seed = 999
	a.Bounds[0].Min = -100

	b := GetPreset(control.VariantClassical, "default")
	if b.PSO.Seed == 999 {
		t.Error("preset mutation leaked into shared config")
	}
	if b.Bounds[0].Min == -100 {
		t.Error("bounds mutation leaked into shared config")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets(control.VariantAdaptive)
	if len(presets) == 0 {
		t.Error("expected presets for adaptive controller")
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent controller")
	}
}

func TestBoundsBox(t *testing.T) {
	cfg := DefaultConfig()
	box := cfg.BoundsBox()
	if len(box) != len(cfg.Bounds) {
		t.Fatalf("expected %d bounds, got %d", len(cfg.Bounds), len(box))
	}
	for i, b := range box {
		if b[0] != cfg.Bounds[i].Min || b[1] != cfg.Bounds[i].Max {
			t.Errorf("bound %d mismatch: %v vs %+v", i, b, cfg.Bounds[i])
		}
	}
}

func TestInitStateVec(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState = InitStateConfig{X: 1, Theta1: 2, Theta2: 3, XDot: 4, Theta1Dot: 5, Theta2Dot: 6}

	vec := cfg.InitStateVec()
	want := []float64{1, 2, 3, 4, 5, 6}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("InitStateVec[%d] = %f, want %f", i, vec[i], want[i])
		}
	}
}
