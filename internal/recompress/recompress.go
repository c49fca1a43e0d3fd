// Package recompress implements recompression fingerprint analysis.
//
// A photograph that has lived through lossy compression carries a
// quality-dependent divergence signature: re-encoding it at a sweep of
// qualities and measuring how far each round trip lands from the original
// traces a curve whose shape reveals prior compression history. A region
// spliced in from a source with a different history disturbs the per-pixel
// difference map locally, which is what the single-quality heatmap exposes.
//
// Analyses are pure with respect to their inputs: the same image, codec and
// quality list always reproduce the identical curve byte for byte, so no
// caching or retrying happens anywhere in the package.
package recompress

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

// Quality limits for the built-in codec.
const (
	MinQuality = 1
	MaxQuality = 100

	// DefaultHeatmapQuality is the conventional round-trip quality for
	// localized difference maps.
	DefaultHeatmapQuality = 70
)

// DefaultQualities returns the conventional forensic sweep, scanned from
// near-lossless toward aggressive compression.
func DefaultQualities() []int {
	return []int{95, 90, 85, 80, 75, 70, 65, 60, 55, 50}
}

var (
	// ErrInvalidQuality is returned when a requested quality falls outside
	// the codec's valid range. The whole request is rejected before any
	// encoding starts.
	ErrInvalidQuality = errors.New("recompress: quality out of range")

	// ErrEncode is returned when the codec fails to produce bytes. Encoding
	// is deterministic, so failures are never retried.
	ErrEncode = errors.New("recompress: encode failed")

	// ErrDecode is returned when the round-trip bytes cannot be decoded
	// back into an image of the original dimensions.
	ErrDecode = errors.New("recompress: decode failed")
)

// Codec is the injected lossy round-trip capability. Implementations must
// be deterministic for fixed inputs and safe for concurrent use.
type Codec interface {
	Name() string
	QualityRange() (min, max int)
	Encode(im *pix.Image, quality int) ([]byte, error)
	Decode(data []byte) (*pix.Image, error)
}

// Sample pairs one sweep quality with the mean absolute per-pixel
// divergence its round trip produced.
type Sample struct {
	Quality    int     `json:"quality"`
	Divergence float64 `json:"divergence"`
}

// Curve is an ordered sweep of samples. Sample order always matches the
// caller's quality order regardless of how the sweep was scheduled.
type Curve struct {
	Codec   string   `json:"codec"`
	Samples []Sample `json:"samples"`
}

// Analyzer runs recompression analyses against one codec.
type Analyzer struct {
	codec   Codec
	workers int
}

// New creates an analyzer. workers bounds sweep parallelism; values below 1
// select one worker per CPU.
func New(codec Codec, workers int) *Analyzer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Analyzer{codec: codec, workers: workers}
}

// Sample measures the divergence of a single round trip at the given
// quality.
func (a *Analyzer) Sample(im *pix.Image, quality int) (Sample, error) {
	d, err := a.Heatmap(im, quality)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Quality: quality, Divergence: d.Mean()}, nil
}

// Heatmap re-encodes once at the given quality and returns the per-pixel
// absolute difference map against the original. The map is raw magnitude
// data; false-color rendering is left to presentation.
func (a *Analyzer) Heatmap(im *pix.Image, quality int) (*pix.DiffMap, error) {
	dec, err := a.roundTrip(im, quality)
	if err != nil {
		return nil, err
	}
	d, err := imgop.AbsDiff(im, dec)
	if err != nil {
		return nil, fmt.Errorf("%w: dimensions changed in round trip", ErrDecode)
	}
	return d, nil
}

// Curve sweeps the caller's quality list and returns one sample per entry,
// in the caller's order. A nil or empty list selects DefaultQualities. All
// qualities are validated before any encoding starts, and any failure
// discards the whole sweep: a partial curve is never returned.
func (a *Analyzer) Curve(im *pix.Image, qualities []int) (*Curve, error) {
	if len(qualities) == 0 {
		qualities = DefaultQualities()
	}
	for _, q := range qualities {
		if err := a.checkQuality(q); err != nil {
			return nil, err
		}
	}

	// Each sample is independent; fan out and reassemble by slot so the
	// output order never depends on completion order.
	samples := make([]Sample, len(qualities))
	errs := make([]error, len(qualities))
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.workers)

	for i, q := range qualities {
		wg.Add(1)
		go func(idx, quality int) {
			defer wg.Done()
			sem <- struct{}{} // acquire
			defer func() { <-sem }() // release

			samples[idx], errs[idx] = a.Sample(im, quality)
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &Curve{Codec: a.codec.Name(), Samples: samples}, nil
}

func (a *Analyzer) roundTrip(im *pix.Image, quality int) (*pix.Image, error) {
	if err := a.checkQuality(quality); err != nil {
		return nil, err
	}
	data, err := a.codec.Encode(im, quality)
	if err != nil {
		if errors.Is(err, ErrInvalidQuality) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: quality %d: %v", ErrEncode, quality, err)
	}
	dec, err := a.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: quality %d: %v", ErrDecode, quality, err)
	}
	return dec, nil
}

func (a *Analyzer) checkQuality(q int) error {
	lo, hi := a.codec.QualityRange()
	if q < lo || q > hi {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidQuality, q, lo, hi)
	}
	return nil
}
