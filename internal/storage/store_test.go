package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/smctune/internal/control"
	"github.com/san-kum/smctune/internal/dynamo"
	"github.com/san-kum/smctune/internal/optim"
	"github.com/san-kum/smctune/internal/tune"
)

func sampleOutcome() *tune.Outcome {
	return &tune.Outcome{
		Controller:  control.VariantClassical,
		BestGains:   []float64{10, 5, 15, 10, 30, 2},
		BestFitness: 12.5,
		History: []optim.IterationStats{
			{Iteration: 0, BestVal: 40.0, MeanVal: 90.0, Failed: 2},
			{Iteration: 1, BestVal: 20.0, MeanVal: 55.0, Failed: 0},
			{Iteration: 2, BestVal: 12.5, MeanVal: 30.0, Failed: 0, Collapsed: false},
		},
		Evaluations:       90,
		FailedEvaluations: 2,
		Elapsed:           3 * time.Second,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save(sampleOutcome(), 42, 30, 3)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Controller != control.VariantClassical {
		t.Errorf("controller = %s", meta.Controller)
	}
	if meta.BestFitness != 12.5 {
		t.Errorf("best fitness = %f", meta.BestFitness)
	}
	if len(meta.BestGains) != 6 {
		t.Errorf("expected 6 gains, got %d", len(meta.BestGains))
	}
	if meta.Seed != 42 || meta.Particles != 30 || meta.Iterations != 3 {
		t.Errorf("unexpected run parameters: %+v", meta)
	}
}

func TestStoreList(t *testing.T) {
	store := New(t.TempDir())

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := store.Save(sampleOutcome(), 1, 30, 3); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreLoadConvergence(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save(sampleOutcome(), 1, 30, 3)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	best, err := store.LoadConvergence(runID)
	if err != nil {
		t.Fatalf("load convergence failed: %v", err)
	}
	want := []float64{40.0, 20.0, 12.5}
	if len(best) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(best))
	}
	for i := range want {
		if math.Abs(best[i]-want[i]) > 1e-9 {
			t.Errorf("best[%d] = %f, want %f", i, best[i], want[i])
		}
	}
}

func TestStoreTrajectoryRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save(sampleOutcome(), 1, 30, 3)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	result := &dynamo.Result{
		States: []dynamo.State{
			{0, 0.1, 0.05, 0, 0, 0},
			{0.001, 0.09, 0.04, 0.1, -0.2, -0.1},
		},
		Controls: []dynamo.Control{{12.5}},
		Times:    []float64{0, 0.002},
	}
	if err := store.SaveTrajectory(runID, result); err != nil {
		t.Fatalf("save trajectory failed: %v", err)
	}

	series, err := store.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if got := series["theta1"]; len(got) != 2 || math.Abs(got[0]-0.1) > 1e-9 {
		t.Errorf("theta1 series = %v", got)
	}
	if got := series["force"]; len(got) != 2 || math.Abs(got[0]-12.5) > 1e-9 {
		t.Errorf("force series = %v", got)
	}
}

func TestSaveGainsUsesPathVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classical_gains.json")

	gf := &GainsFile{
		Controller:  control.VariantClassical,
		Gains:       []float64{10, 5, 15, 10, 30, 2},
		BestFitness: 12.5,
	}
	if err := SaveGains(path, gf); err != nil {
		t.Fatalf("save gains failed: %v", err)
	}

	// The file must land at exactly the requested path, not at a
	// basename-rejoined variant of it.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("gains file missing at requested path: %v", err)
	}
	degenerate := filepath.Join(path, filepath.Base(path))
	if _, err := os.Stat(degenerate); err == nil {
		t.Errorf("gains written to degenerate path %s", degenerate)
	}

	loaded, err := LoadGains(path)
	if err != nil {
		t.Fatalf("load gains failed: %v", err)
	}
	if loaded.Controller != gf.Controller || len(loaded.Gains) != len(gf.Gains) {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
