// Package stats computes intensity histograms and the derived statistics the
// analyzers need: percentile bounds for auto-contrast, cumulative
// distributions for equalization, and channel moments for reports.
package stats

import (
	"math"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

// Histogram counts occurrences of each 8-bit intensity level. Counts are
// int64 so planes larger than 2 gigapixels cannot overflow a bin.
type Histogram [256]int64

// Compute bins every sample of a single-channel plane.
func Compute(p *pix.Plane) Histogram {
	var h Histogram
	for _, v := range p.Pix {
		h[v]++
	}
	return h
}

// Sum returns the total sample count. For a histogram produced by Compute
// this equals the plane area.
func (h *Histogram) Sum() int64 {
	var total int64
	for _, c := range h {
		total += c
	}
	return total
}

// Cumulative returns the running sum over levels. The last entry equals
// Sum().
func (h *Histogram) Cumulative() [256]int64 {
	var cum [256]int64
	var run int64
	for i, c := range h {
		run += c
		cum[i] = run
	}
	return cum
}

// Peak returns the largest single-bin count, used to scale plotted
// histograms.
func (h *Histogram) Peak() int64 {
	var m int64
	for _, c := range h {
		if c > m {
			m = c
		}
	}
	return m
}

// Bounds locates the intensity range that remains after clipping clipFrac of
// the samples off each end of the distribution. low is the smallest level
// whose cumulative count strictly exceeds the clip amount, high the largest
// level counting from the top. With clipFrac 0 this is the observed min and
// max. clipFrac is clamped to [0, 0.5]; heavy clipping on a concentrated
// distribution can legitimately produce low >= high, and LUT construction
// treats that range as degenerate.
func (h *Histogram) Bounds(clipFrac float64) (low, high int) {
	if clipFrac < 0 {
		clipFrac = 0
	}
	if clipFrac > 0.5 {
		clipFrac = 0.5
	}
	total := h.Sum()
	if total == 0 {
		return 0, 255
	}
	clip := int64(clipFrac * float64(total))

	var cum int64
	for i := 0; i < 256; i++ {
		cum += h[i]
		if cum > clip {
			low = i
			break
		}
	}
	cum = 0
	for i := 255; i >= 0; i-- {
		cum += h[i]
		if cum > clip {
			high = i
			break
		}
	}
	return low, high
}

// Mean returns the average intensity, 0 for an empty histogram.
func (h *Histogram) Mean() float64 {
	total := h.Sum()
	if total == 0 {
		return 0
	}
	var sum float64
	for i, c := range h {
		sum += float64(i) * float64(c)
	}
	return sum / float64(total)
}

// StdDev returns the population standard deviation of the intensities.
func (h *Histogram) StdDev() float64 {
	total := h.Sum()
	if total == 0 {
		return 0
	}
	mean := h.Mean()
	var sq float64
	for i, c := range h {
		d := float64(i) - mean
		sq += d * d * float64(c)
	}
	return math.Sqrt(sq / float64(total))
}
