package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/artifact"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/engine"
)

// New creates an empty report with defaults.
func New(profileName string, src Source) *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Source:      src,
	}
}

// AddArtifacts serializes battery output into the report, preserving
// emission order.
func (r *Report) AddArtifacts(arts []artifact.Artifact) error {
	for _, a := range arts {
		e, err := fromArtifact(a)
		if err != nil {
			return fmt.Errorf("artifact %s/%s: %w", a.Analyzer, a.Label, err)
		}
		r.Artifacts = append(r.Artifacts, e)
	}
	return nil
}

// AddFailures records analyzers that produced nothing.
func (r *Report) AddFailures(failures []engine.Failure) {
	for _, f := range failures {
		r.Failures = append(r.Failures, Fail{Analyzer: f.Analyzer, Error: f.Err.Error()})
	}
}

// Entry returns the first entry with the given analyzer tag and label.
func (r *Report) Entry(analyzer, label string) (*Entry, bool) {
	for i := range r.Artifacts {
		e := &r.Artifacts[i]
		if e.Analyzer == analyzer && e.Label == label {
			return e, true
		}
	}
	return nil, false
}

// ComputeStats recalculates aggregate payload metrics from the entries.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalArtifacts = len(r.Artifacts)
	for _, e := range r.Artifacts {
		if e.Pixels != nil {
			s.TotalRawBytes += int64(e.Pixels.Width * e.Pixels.Height * e.Pixels.Channels)
			s.TotalStoredBytes += int64(len(e.Pixels.Data))
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Load reads a report back from disk. Payloads stay compressed until an
// entry is decoded.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
