package imgop

import (
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/stats"
)

// LUT remaps 8-bit intensities. Tables are built per call, applied and
// discarded; nothing caches them.
type LUT [256]uint8

// Identity returns the no-op table.
func Identity() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}

// BuildLUT constructs a monotonic contrast stretch mapping low to 0 and high
// to 255 with linear interpolation between and saturation outside. Inputs
// are clamped to [0, 255]. A degenerate range (high <= low) collapses to a
// threshold at low: values at or below low map to 0, everything above to
// 255.
func BuildLUT(low, high int) LUT {
	if low < 0 {
		low = 0
	}
	if low > 255 {
		low = 255
	}
	if high < 0 {
		high = 0
	}
	if high > 255 {
		high = 255
	}

	var l LUT
	if high <= low {
		for i := low + 1; i < 256; i++ {
			l[i] = 255
		}
		return l
	}
	span := high - low
	for i := range l {
		switch {
		case i <= low:
			l[i] = 0
		case i >= high:
			l[i] = 255
		default:
			l[i] = uint8(((i-low)*510 + span) / (2 * span)) // round(255*(i-low)/span)
		}
	}
	return l
}

// AutoLUT builds a contrast stretch whose bounds sit at the clipFrac and
// 1-clipFrac percentiles of the plane's cumulative histogram, discarding
// outlier tails. With clipFrac 0 the bounds are the observed min and max.
func AutoLUT(p *pix.Plane, clipFrac float64) LUT {
	h := stats.Compute(p)
	low, high := h.Bounds(clipFrac)
	return BuildLUT(low, high)
}

// Apply remaps every channel of the image through the table.
func (l LUT) Apply(im *pix.Image) *pix.Image {
	out := pix.New(im.W, im.H)
	for i, v := range im.Pix {
		out.Pix[i] = l[v]
	}
	return out
}

// ApplyPlane remaps a single-channel plane through the table.
func (l LUT) ApplyPlane(p *pix.Plane) *pix.Plane {
	out := pix.NewPlane(p.W, p.H)
	for i, v := range p.Pix {
		out.Pix[i] = l[v]
	}
	return out
}

// Equalize performs classic histogram equalization independently on each
// channel: intensities are remapped through the channel's cumulative
// distribution so the output occupies the full range as uniformly as the
// data allows. A constant channel has a degenerate distribution and passes
// through unchanged.
func Equalize(im *pix.Image) *pix.Image {
	out := pix.New(im.W, im.H)
	for c := 0; c < pix.Channels; c++ {
		p := im.Channel(c)
		l := equalizeLUT(p)
		for i, v := range p.Pix {
			out.Pix[i*pix.Channels+c] = l[v]
		}
	}
	return out
}

// equalizeLUT derives the CDF remap table for one channel.
func equalizeLUT(p *pix.Plane) LUT {
	h := stats.Compute(p)
	cum := h.Cumulative()
	total := cum[255]

	var cdfMin int64
	for _, c := range cum {
		if c > 0 {
			cdfMin = c
			break
		}
	}
	if total == 0 || total == cdfMin {
		return Identity()
	}

	var l LUT
	span := total - cdfMin
	for i := range l {
		if cum[i] <= cdfMin {
			continue // everything at or below the first occupied level maps to 0
		}
		l[i] = uint8(((cum[i]-cdfMin)*510 + span) / (2 * span))
	}
	return l
}
