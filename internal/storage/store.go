package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/smctune/internal/dynamo"
	"github.com/san-kum/smctune/internal/tune"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                string    `json:"id"`
	Controller        string    `json:"controller"`
	Timestamp         time.Time `json:"timestamp"`
	Seed              int64     `json:"seed"`
	Particles         int       `json:"particles"`
	Iterations        int       `json:"iterations"`
	BestGains         []float64 `json:"best_gains"`
	BestFitness       float64   `json:"best_fitness"`
	Evaluations       int       `json:"evaluations"`
	FailedEvaluations int       `json:"failed_evaluations"`
	CollapseWarnings  int       `json:"collapse_warnings"`
	ElapsedSeconds    float64   `json:"elapsed_seconds"`
}

// Save persists one tuning outcome as a new run directory: metadata.json
// with the best gains and convergence.csv with the per-iteration best
// fitness history.
func (s *Store) Save(outcome *tune.Outcome, seed int64, particles, iterations int) (string, error) {
	runID := fmt.Sprintf("%s_%d", outcome.Controller, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                runID,
		Controller:        outcome.Controller,
		Timestamp:         time.Now(),
		Seed:              seed,
		Particles:         particles,
		Iterations:        iterations,
		BestGains:         outcome.BestGains,
		BestFitness:       outcome.BestFitness,
		Evaluations:       outcome.Evaluations,
		FailedEvaluations: outcome.FailedEvaluations,
		CollapseWarnings:  outcome.CollapseWarnings,
		ElapsedSeconds:    outcome.Elapsed.Seconds(),
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "convergence.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"iteration", "best_fitness", "mean_fitness", "failed", "collapsed"}); err != nil {
		return "", err
	}
	for _, h := range outcome.History {
		row := []string{
			strconv.Itoa(h.Iteration),
			strconv.FormatFloat(h.BestVal, 'f', 6, 64),
			strconv.FormatFloat(h.MeanVal, 'f', 6, 64),
			strconv.Itoa(h.Failed),
			strconv.FormatBool(h.Collapsed),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// SaveTrajectory writes the replayed best-gains trajectory of a run as
// trajectory.csv: one row per step with time, full state and control.
func (s *Store) SaveTrajectory(runID string, result *dynamo.Result) error {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "theta1", "theta2", "xdot", "theta1dot", "theta2dot", "force"}); err != nil {
		return err
	}
	for i, x := range result.States {
		row := make([]string, 0, len(x)+2)
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, v := range x {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		force := 0.0
		if i < len(result.Controls) && len(result.Controls[i]) > 0 {
			force = result.Controls[i][0]
		}
		row = append(row, strconv.FormatFloat(force, 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// LoadTrajectory reads trajectory.csv back as one sample series per
// column, keyed by the header names.
func (s *Store) LoadTrajectory(runID string) (map[string][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: trajectory for %s is empty", runID)
	}

	header := records[0]
	series := make(map[string][]float64, len(header))
	for _, rec := range records[1:] {
		for col, name := range header {
			if col >= len(rec) {
				continue
			}
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				continue
			}
			series[name] = append(series[name], v)
		}
	}
	return series, nil
}

// LoadConvergence reads the per-iteration best fitness series for a run.
func (s *Store) LoadConvergence(runID string) ([]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "convergence.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	best := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			continue
		}
		best = append(best, v)
	}

	return best, nil
}
