// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden dataset types and assertion helpers used by the
// sim/disk/ and sim/memory/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Disk   []GoldenDiskCase   `json:"disk"`
	Memory []GoldenMemoryCase `json:"memory"`
}

// GoldenDiskCase is a seek problem with the known answer of every algorithm.
type GoldenDiskCase struct {
	Name    string                      `json:"name"`
	Head    int                         `json:"head"`
	Tracks  []int                       `json:"tracks"`
	Results map[string]GoldenDiskResult `json:"results"` // keyed by algorithm name
	Best    string                      `json:"best"`
}

// GoldenDiskResult is the expected visit order and total head movement.
type GoldenDiskResult struct {
	Order []int `json:"order"`
	Total int   `json:"total"`
}

// GoldenMemoryCase is a page reference string replayed by one process
// against an empty frame table.
type GoldenMemoryCase struct {
	Name       string  `json:"name"`
	Frames     int     `json:"frames"`
	Policy     string  `json:"policy"`
	References []int   `json:"references"`
	Faults     int64   `json:"faults"`
	Evictions  int64   `json:"evictions"`
	HitRate    float64 `json:"hit_rate"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
