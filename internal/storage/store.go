package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/series"
	"github.com/san-kum/oscsim/internal/sim"
)

// Store persists simulation runs under a data directory, one subdirectory
// per run holding metadata.json and series.csv.
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
	Params      oscillator.Params  `json:"params"`
	InitQ       float64            `json:"init_q"`
	InitV       float64            `json:"init_v"`
	TMax        float64            `json:"tmax"`
	Samples     int                `json:"samples"`
	Tolerance   float64            `json:"tolerance"`
	Integrator  string             `json:"integrator"`
	StepsTaken  int                `json:"steps_taken"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

var csvHeader = []string{"time", "q", "v", "force", "kinetic", "potential", "energy", "power"}

func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("osc_%s", uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.StepsTaken = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Traj, result.Series); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV streams a trajectory and its derived series as CSV rows.
func WriteCSV(out io.Writer, tr series.Trajectory, ds series.Set) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		row := []string{
			formatFloat(tr.Times[i]),
			formatFloat(tr.Q[i]),
			formatFloat(tr.V[i]),
			formatFloat(ds.Force[i]),
			formatFloat(ds.Kinetic[i]),
			formatFloat(ds.Potential[i]),
			formatFloat(ds.Total[i]),
			formatFloat(ds.Power[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back a saved run's trajectory and derived columns.
func (s *Store) LoadSeries(runID string) (series.Trajectory, series.Set, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return series.Trajectory{}, series.Set{}, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return series.Trajectory{}, series.Set{}, err
	}
	if len(records) < 2 {
		return series.Trajectory{}, series.Set{}, fmt.Errorf("run %s: empty series", runID)
	}

	n := len(records) - 1
	tr := series.Trajectory{
		Times: make([]float64, n),
		Q:     make([]float64, n),
		V:     make([]float64, n),
	}
	ds := series.Set{
		Force:     make([]float64, n),
		Kinetic:   make([]float64, n),
		Potential: make([]float64, n),
		Total:     make([]float64, n),
		Power:     make([]float64, n),
	}

	for i, rec := range records[1:] {
		if len(rec) < len(csvHeader) {
			return series.Trajectory{}, series.Set{}, fmt.Errorf("run %s: short row %d", runID, i+1)
		}
		cols := []*float64{
			&tr.Times[i], &tr.Q[i], &tr.V[i],
			&ds.Force[i], &ds.Kinetic[i], &ds.Potential[i], &ds.Total[i], &ds.Power[i],
		}
		for j, dst := range cols {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return series.Trajectory{}, series.Set{}, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
			}
			*dst = v
		}
	}

	return tr, ds, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}
