// Package engine runs the analyzer battery over one canonical image.
//
// Each analyzer is a pure function of the shared read-only buffer, so the
// battery fans out across workers and reassembles results by slot: emission
// order is the fixed battery order, never completion order. Analyzers fail
// independently; a codec error in the recompression sweep does not suppress
// histogram or contrast artifacts from the same run.
package engine

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/artifact"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/profile"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/recompress"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/stats"
)

// Analyzer tags carried by emitted artifacts, used by sinks to route each
// result to the matching view.
const (
	AnalyzerHistogram    = "histogram"
	AnalyzerAutoContrast = "autocontrast"
	AnalyzerEqualize     = "equalize"
	AnalyzerLuminance    = "luminance"
	AnalyzerCurve        = "recompression-curve"
	AnalyzerHeatmap      = "recompression-heatmap"
)

// Config holds all parameters for one battery run.
type Config struct {
	Profile profile.Profile
	Codec   recompress.Codec // nil selects the stdlib JPEG round trip
	Workers int              // parallel analyzers (0 = NumCPU)
}

// Failure records one analyzer that produced no artifacts.
type Failure struct {
	Analyzer string
	Err      error
}

// Engine orchestrates the analyzer battery.
type Engine struct {
	cfg Config
	rec *recompress.Analyzer
}

// New creates a configured engine.
func New(cfg Config) *Engine {
	if cfg.Codec == nil {
		cfg.Codec = recompress.JPEG{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	// The sweep reuses the battery worker cap so a battery of analyzers
	// times a sweep of qualities cannot explode past it.
	return &Engine{
		cfg: cfg,
		rec: recompress.New(cfg.Codec, cfg.Workers),
	}
}

type task struct {
	name string
	run  func(im *pix.Image) ([]artifact.Artifact, error)
}

// battery returns the fixed analyzer list. Order here is emission order.
func (e *Engine) battery() []task {
	p := e.cfg.Profile
	return []task{
		{AnalyzerHistogram, e.histograms},
		{AnalyzerAutoContrast, func(im *pix.Image) ([]artifact.Artifact, error) {
			return e.autoContrast(im, p.ClipFraction)
		}},
		{AnalyzerEqualize, func(im *pix.Image) ([]artifact.Artifact, error) {
			return []artifact.Artifact{
				artifact.NewImage(AnalyzerEqualize, "equalized", imgop.Equalize(im)),
			}, nil
		}},
		{AnalyzerLuminance, func(im *pix.Image) ([]artifact.Artifact, error) {
			return []artifact.Artifact{
				artifact.NewImage(AnalyzerLuminance, "desaturated", imgop.Desaturate(im)),
			}, nil
		}},
		{AnalyzerCurve, func(im *pix.Image) ([]artifact.Artifact, error) {
			c, err := e.rec.Curve(im, p.Qualities)
			if err != nil {
				return nil, err
			}
			return []artifact.Artifact{artifact.NewCurve(AnalyzerCurve, "sweep", c)}, nil
		}},
		{AnalyzerHeatmap, func(im *pix.Image) ([]artifact.Artifact, error) {
			d, err := e.rec.Heatmap(im, p.HeatmapQuality)
			if err != nil {
				return nil, err
			}
			return []artifact.Artifact{artifact.NewDiff(AnalyzerHeatmap, "heatmap", d)}, nil
		}},
	}
}

// Run executes the full battery against im and emits every artifact to sink
// in battery order. Analyzers that fail are reported in the returned
// Failure list; Run itself errors only when the sink rejects an artifact or
// when every analyzer failed.
func (e *Engine) Run(im *pix.Image, sink artifact.Sink) ([]Failure, error) {
	tasks := e.battery()

	results := make([][]artifact.Artifact, len(tasks))
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.Workers)

	for i, tk := range tasks {
		wg.Add(1)
		go func(idx int, tk task) {
			defer wg.Done()
			sem <- struct{}{} // acquire
			defer func() { <-sem }() // release

			results[idx], errs[idx] = tk.run(im)
		}(i, tk)
	}
	wg.Wait()

	var failures []Failure
	for i, tk := range tasks {
		if errs[i] != nil {
			failures = append(failures, Failure{Analyzer: tk.name, Err: errs[i]})
			continue
		}
		for _, a := range results[i] {
			if err := sink.Emit(a); err != nil {
				return failures, fmt.Errorf("emit %s/%s: %w", a.Analyzer, a.Label, err)
			}
		}
	}
	if len(failures) == len(tasks) {
		return failures, fmt.Errorf("all %d analyzers failed", len(tasks))
	}
	return failures, nil
}

// histograms emits one histogram per channel plus the luma plane. Channel
// selection stays explicit all the way down; nothing averages channels.
func (e *Engine) histograms(im *pix.Image) ([]artifact.Artifact, error) {
	labels := []string{"red", "green", "blue"}
	out := make([]artifact.Artifact, 0, 4)
	for c, label := range labels {
		h := stats.Compute(im.Channel(c))
		out = append(out, artifact.NewHistogram(AnalyzerHistogram, label, h))
	}
	h := stats.Compute(imgop.Luma(im))
	out = append(out, artifact.NewHistogram(AnalyzerHistogram, "luma", h))
	return out, nil
}

// autoContrast emits the percentile-stretch table and the remapped image.
func (e *Engine) autoContrast(im *pix.Image, clipFrac float64) ([]artifact.Artifact, error) {
	lut := imgop.AutoLUT(imgop.Luma(im), clipFrac)
	return []artifact.Artifact{
		artifact.NewLUT(AnalyzerAutoContrast, "stretch", lut),
		artifact.NewImage(AnalyzerAutoContrast, "stretched", lut.Apply(im)),
	}, nil
}
