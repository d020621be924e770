package storage

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/series"
	"github.com/san-kum/oscsim/internal/sim"
)

func smallRun(t *testing.T, p oscillator.Params) *sim.Result {
	t.Helper()

	s := sim.New(oscillator.New(p), nil)
	cfg := sim.DefaultConfig()
	cfg.TMax = 5
	cfg.Samples = 50

	result, err := s.Run(context.Background(), dynamo.State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p := oscillator.Params{Mass: 1, Damping: 0.2, Spring: 2, ForceAmp: 0.5, ForceFreq: 1.5}
	result := smallRun(t, p)

	runID, err := store.Save(RunMetadata{
		Params:     p,
		InitQ:      1,
		TMax:       5,
		Samples:    50,
		Tolerance:  1e-8,
		Integrator: "rk45",
	}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "osc_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %q, got %q", runID, meta.ID)
	}
	if meta.Params.Spring != 2 {
		t.Errorf("params not round-tripped: %+v", meta.Params)
	}
	if meta.StepsTaken != result.StepsTaken {
		t.Errorf("expected %d steps, got %d", result.StepsTaken, meta.StepsTaken)
	}
}

func TestLoadSeries(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p := oscillator.DefaultParams()
	result := smallRun(t, p)

	runID, err := store.Save(RunMetadata{Params: p}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	tr, ds, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}

	if tr.Len() != result.Traj.Len() {
		t.Fatalf("expected %d samples, got %d", result.Traj.Len(), tr.Len())
	}

	// CSV stores six decimal places.
	for i := 0; i < tr.Len(); i++ {
		if math.Abs(tr.Q[i]-result.Traj.Q[i]) > 1e-6 {
			t.Fatalf("q mismatch at sample %d: %f vs %f", i, tr.Q[i], result.Traj.Q[i])
		}
		if math.Abs(ds.Total[i]-result.Series.Total[i]) > 1e-6 {
			t.Fatalf("energy mismatch at sample %d", i)
		}
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("osc_missing"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, _, err := store.LoadSeries("osc_missing"); err == nil {
		t.Error("expected error for missing series")
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p := oscillator.DefaultParams()
	result := smallRun(t, p)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id, err := store.Save(RunMetadata{Params: p}, result)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		ids[id] = true
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for _, run := range runs {
		if !ids[run.ID] {
			t.Errorf("listed unknown run %q", run.ID)
		}
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].Timestamp.Before(runs[i-1].Timestamp) {
			t.Error("runs not ordered by timestamp")
		}
	}
}

func TestListEmptyDir(t *testing.T) {
	store := New(t.TempDir())
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestWriteCSV(t *testing.T) {
	tr := series.Trajectory{
		Times: []float64{0, 0.5},
		Q:     []float64{1, 0.9},
		V:     []float64{0, -0.4},
	}
	ds := series.Derive(oscillator.DefaultParams(), tr)

	var sb strings.Builder
	if err := WriteCSV(&sb, tr, ds); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,q,v,force,kinetic,potential,energy,power" {
		t.Errorf("unexpected header %q", lines[0])
	}
}
