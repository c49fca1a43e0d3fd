// Package artifact defines the boundary between analyzers and presentation.
//
// Analyzers hand their results over as tagged artifacts: exactly one payload
// of a known kind, labeled with the analyzer that produced it so a frontend
// can route each result to the matching view without inspecting payloads.
// The Sink interface is the only coupling point; computation never knows
// what consumes it.
package artifact

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/recompress"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/stats"
)

// Kind tags the payload variant an artifact carries.
type Kind int

const (
	KindImage Kind = iota
	KindLUT
	KindHistogram
	KindCurve
	KindDiff
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindLUT:
		return "lut"
	case KindHistogram:
		return "histogram"
	case KindCurve:
		return "curve"
	case KindDiff:
		return "diffmap"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Artifact is one analyzer result: an analyzer tag, an optional label
// distinguishing multiple outputs of the same analyzer, and exactly one
// payload selected by Kind.
type Artifact struct {
	Analyzer string
	Label    string
	Kind     Kind

	Image     *pix.Image
	LUT       *imgop.LUT
	Histogram *stats.Histogram
	Curve     *recompress.Curve
	Diff      *pix.DiffMap
}

// NewImage builds an image artifact.
func NewImage(analyzer, label string, im *pix.Image) Artifact {
	return Artifact{Analyzer: analyzer, Label: label, Kind: KindImage, Image: im}
}

// NewLUT builds a lookup-table artifact.
func NewLUT(analyzer, label string, l imgop.LUT) Artifact {
	return Artifact{Analyzer: analyzer, Label: label, Kind: KindLUT, LUT: &l}
}

// NewHistogram builds a histogram artifact.
func NewHistogram(analyzer, label string, h stats.Histogram) Artifact {
	return Artifact{Analyzer: analyzer, Label: label, Kind: KindHistogram, Histogram: &h}
}

// NewCurve builds a recompression-curve artifact.
func NewCurve(analyzer, label string, c *recompress.Curve) Artifact {
	return Artifact{Analyzer: analyzer, Label: label, Kind: KindCurve, Curve: c}
}

// NewDiff builds a difference-map artifact.
func NewDiff(analyzer, label string, d *pix.DiffMap) Artifact {
	return Artifact{Analyzer: analyzer, Label: label, Kind: KindDiff, Diff: d}
}

// Validate checks the tagged-union invariant: a producer tag and exactly one
// payload, matching the declared kind.
func (a Artifact) Validate() error {
	if a.Analyzer == "" {
		return errors.New("artifact: missing analyzer tag")
	}
	n := 0
	if a.Image != nil {
		n++
	}
	if a.LUT != nil {
		n++
	}
	if a.Histogram != nil {
		n++
	}
	if a.Curve != nil {
		n++
	}
	if a.Diff != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("artifact: %d payloads, want exactly 1", n)
	}

	ok := false
	switch a.Kind {
	case KindImage:
		ok = a.Image != nil
	case KindLUT:
		ok = a.LUT != nil
	case KindHistogram:
		ok = a.Histogram != nil
	case KindCurve:
		ok = a.Curve != nil
	case KindDiff:
		ok = a.Diff != nil
	}
	if !ok {
		return fmt.Errorf("artifact: payload does not match kind %s", a.Kind)
	}
	return nil
}

// Sink accepts artifacts from analyzers. Implementations decide routing,
// rendering and persistence; an Emit error tells the engine the result was
// not taken.
type Sink interface {
	Emit(a Artifact) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(a Artifact) error

// Emit implements Sink.
func (f SinkFunc) Emit(a Artifact) error { return f(a) }

// Collector is an in-memory sink, the default destination for tests and for
// frontends that post-process a whole analysis at once.
type Collector struct {
	mu   sync.Mutex
	list []Artifact
}

// Emit implements Sink. Malformed artifacts are rejected.
func (c *Collector) Emit(a Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.list = append(c.list, a)
	c.mu.Unlock()
	return nil
}

// Artifacts returns the collected artifacts in emission order.
func (c *Collector) Artifacts() []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Artifact, len(c.list))
	copy(out, c.list)
	return out
}

// ByKind returns the collected artifacts of one kind, in emission order.
func (c *Collector) ByKind(k Kind) []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Artifact
	for _, a := range c.list {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Find returns the first artifact with the given analyzer tag and label.
func (c *Collector) Find(analyzer, label string) (Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.list {
		if a.Analyzer == analyzer && a.Label == label {
			return a, true
		}
	}
	return Artifact{}, false
}
