// Package storage keeps finished runs on disk, one directory per run.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/export"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	energyFile     = "energy.csv"
)

var ErrRunNotFound = errors.New("run not found")

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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	G           float64            `json:"g"`
	Softening   float64            `json:"softening"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Bodies      int                `json:"bodies"`
	Masses      []float64          `json:"masses"`
	Integrator  string             `json:"integrator"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewRunMetadata fills the run parameters from cfg; Save completes the rest.
func NewRunMetadata(cfg dynamo.Config, integrator string, masses []float64) RunMetadata {
	return RunMetadata{
		Seed:       cfg.Seed,
		G:          cfg.G,
		Softening:  cfg.Softening,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Masses:     append([]float64(nil), masses...),
		Integrator: integrator,
	}
}

// Save writes metadata.json, trajectory.csv and energy.csv under a fresh
// run directory and returns the run ID.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("nbody_%d", now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Bodies = result.Bodies()
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := export.WriteTrajectoryFile(filepath.Join(runDir, trajectoryFile), result); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}
	if err := export.WriteEnergyFile(filepath.Join(runDir, energyFile), result); err != nil {
		return "", fmt.Errorf("write energy: %w", err)
	}

	return runID, nil
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

// LoadResult rebuilds the state and energy histories of a saved run.
// Accelerations are not persisted and come back zero.
func (s *Store) LoadResult(runID string) (*dynamo.Result, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	runDir := filepath.Join(s.baseDir, runID)
	tf, err := os.Open(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer tf.Close()

	result, err := export.ReadTrajectory(tf, meta.Dt)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", runID, err)
	}

	ef, err := os.Open(filepath.Join(runDir, energyFile))
	if err != nil {
		return nil, nil, err
	}
	defer ef.Close()

	if err := export.ReadEnergy(ef, result); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", runID, err)
	}

	result.EnergyDrift = meta.EnergyDrift
	for k, v := range meta.Metrics {
		result.Metrics[k] = v
	}
	return result, meta, nil
}
