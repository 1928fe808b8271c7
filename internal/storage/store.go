package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/sim"
)

const (
	metadataFile = "metadata.json"
	ticksFile    = "ticks.csv"
	configFile   = "config.yaml"
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
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	FPS       int                `json:"fps"`
	Particles int                `json:"particles"`
	Camera    string             `json:"camera"`
	Algorithm string             `json:"algorithm"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run of cfg.
func NewMetadata(cfg *config.Config, preset string, result *sim.Result) RunMetadata {
	return RunMetadata{
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Ticks:     result.StepsTaken,
		FPS:       cfg.FPS,
		Particles: cfg.Grid.Cols * cfg.Grid.Rows,
		Camera:    cfg.Camera.Source,
		Algorithm: cfg.Flow.Algorithm,
		Elapsed:   result.Elapsed.Seconds(),
		Metrics:   result.Metrics,
	}
}

// Save writes the run into a new directory and returns its id.
func (s *Store) Save(cfg *config.Config, meta RunMetadata, ticks []sim.TickStats) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Camera, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	meta.ID = runID

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

	if cfg != nil {
		if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
			return "", fmt.Errorf("writing config: %w", err)
		}
	}

	csvFile, err := os.Create(filepath.Join(runDir, ticksFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTicksCSV(csvFile, ticks); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadTicks(runID string) ([]sim.TickStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, ticksFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ticks := []sim.TickStats{}
	if err := gocsv.UnmarshalFile(file, &ticks); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []sim.TickStats{}, nil
		}
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return ticks, nil
}

// Series extracts the detach ratio of each tick.
func Series(ticks []sim.TickStats) []float64 {
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = t.Ratio
	}
	return out
}
