package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/series"
)

type ExportData struct {
	ID        string             `json:"id"`
	Params    oscillator.Params  `json:"params"`
	Times     []float64          `json:"times"`
	Q         []float64          `json:"q"`
	V         []float64          `json:"v"`
	Force     []float64          `json:"force"`
	Kinetic   []float64          `json:"kinetic"`
	Potential []float64          `json:"potential"`
	Energy    []float64          `json:"energy"`
	Power     []float64          `json:"power"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSON writes a full run (metadata, trajectory, derived series) as
// indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, tr series.Trajectory, ds series.Set) error {
	data := ExportData{
		ID:        meta.ID,
		Params:    meta.Params,
		Times:     tr.Times,
		Q:         tr.Q,
		V:         tr.V,
		Force:     ds.Force,
		Kinetic:   ds.Kinetic,
		Potential: ds.Potential,
		Energy:    ds.Total,
		Power:     ds.Power,
		Metrics:   meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
