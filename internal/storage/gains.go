package storage

import (
	"encoding/json"
	"os"
)

// GainsFile is the standalone export format for tuned gains, consumed by
// the run and compare commands.
type GainsFile struct {
	Controller  string    `json:"controller"`
	Gains       []float64 `json:"gains"`
	BestFitness float64   `json:"best_fitness"`
}

// SaveGains writes the tuned gains to exactly the given path. The path
// is used verbatim: it must never be re-joined with its own basename or
// any per-controller directory, which silently produces paths like
// "classical/classical" and a not-found failure after an otherwise
// successful optimization.
func SaveGains(path string, gf *GainsFile) error {
	data, err := json.MarshalIndent(gf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadGains reads a gains file written by SaveGains.
func LoadGains(path string) (*GainsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var gf GainsFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, err
	}
	return &gf, nil
}
