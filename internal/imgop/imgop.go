// Package imgop implements the elementary pixel operations shared by the
// analyzers: padding, shifting, clipping, normalization, luma conversion,
// histogram equalization and lookup-table synthesis. Every function is pure:
// inputs are never mutated and outputs are freshly allocated, so results can
// be computed concurrently over the same source buffer.
package imgop

import (
	"errors"
	"fmt"
	"math"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

// ErrShapeMismatch is returned when a binary operation receives images of
// different dimensions.
var ErrShapeMismatch = errors.New("imgop: shape mismatch")

// PadMode selects the fill policy for Pad.
type PadMode int

const (
	// PadReplicate extends the image by repeating its edge pixels.
	PadReplicate PadMode = iota
	// PadZero fills the padded region with black.
	PadZero
)

// Pad grows an image on the right and bottom so both dimensions become the
// smallest multiples of block that fit the original. The source occupies the
// top-left sub-rectangle unchanged. block values below 2 yield a plain copy.
func Pad(im *pix.Image, block int, mode PadMode) *pix.Image {
	if block < 1 {
		block = 1
	}
	pw := (im.W + block - 1) / block * block
	ph := (im.H + block - 1) / block * block
	out := pix.New(pw, ph)

	for y := 0; y < ph; y++ {
		if y >= im.H {
			if mode == PadZero {
				break // rows below the source stay zeroed
			}
			copy(out.Pix[y*pw*3:(y+1)*pw*3], out.Pix[(y-1)*pw*3:y*pw*3])
			continue
		}
		copy(out.Pix[y*pw*3:(y*pw+im.W)*3], im.Pix[y*im.W*3:(y+1)*im.W*3])
		if mode == PadReplicate {
			e := im.Offset(im.W-1, y)
			for x := im.W; x < pw; x++ {
				o := (y*pw + x) * 3
				out.Pix[o] = im.Pix[e]
				out.Pix[o+1] = im.Pix[e+1]
				out.Pix[o+2] = im.Pix[e+2]
			}
		}
	}
	return out
}

// ShiftMode selects how Shift resolves source reads outside the image.
type ShiftMode int

const (
	// ShiftWrap translates circularly: pixels pushed off one edge re-enter
	// on the opposite edge.
	ShiftWrap ShiftMode = iota
	// ShiftClamp translates with edge clamping: reads past a border stick
	// to the nearest edge pixel.
	ShiftClamp
)

// Shift translates the image by (dx, dy) pixels, positive values moving
// content right and down. Output dimensions equal input dimensions. Shifted
// copies act as the reference pair in clone-detection comparisons.
func Shift(im *pix.Image, dx, dy int, mode ShiftMode) *pix.Image {
	out := pix.New(im.W, im.H)
	for y := 0; y < im.H; y++ {
		sy := y - dy
		if mode == ShiftWrap {
			sy = ((sy % im.H) + im.H) % im.H
		} else if sy < 0 {
			sy = 0
		} else if sy >= im.H {
			sy = im.H - 1
		}
		for x := 0; x < im.W; x++ {
			sx := x - dx
			if mode == ShiftWrap {
				sx = ((sx % im.W) + im.W) % im.W
			} else if sx < 0 {
				sx = 0
			} else if sx >= im.W {
				sx = im.W - 1
			}
			si := im.Offset(sx, sy)
			di := out.Offset(x, y)
			out.Pix[di] = im.Pix[si]
			out.Pix[di+1] = im.Pix[si+1]
			out.Pix[di+2] = im.Pix[si+2]
		}
	}
	return out
}

// Unbounded clip limits for Clip.
var (
	NoMin = math.Inf(-1)
	NoMax = math.Inf(1)
)

// Clip saturates v to [lo, hi]. Pass NoMin or NoMax to leave a side open.
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Luma reduces the image to a single perceptual-luminance plane using the
// same fixed-point BT.601 weighting as image/color's gray conversion, so the
// result is reproducible across platforms.
func Luma(im *pix.Image) *pix.Plane {
	p := pix.NewPlane(im.W, im.H)
	for i := range p.Pix {
		j := i * 3
		r := uint32(im.Pix[j]) * 0x101
		g := uint32(im.Pix[j+1]) * 0x101
		b := uint32(im.Pix[j+2]) * 0x101
		p.Pix[i] = uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
	}
	return p
}

// Desaturate converts the image to weighted luma replicated across all three
// channels. Unlike grayscale loader output, which replicates one source
// channel verbatim, every output value here is the BT.601 blend of the
// source channels.
func Desaturate(im *pix.Image) *pix.Image {
	return pix.FromPlane(Luma(im))
}

// AbsDiff computes the per-pixel, per-channel absolute difference of two
// images with identical dimensions.
func AbsDiff(a, b *pix.Image) (*pix.DiffMap, error) {
	if a.W != b.W || a.H != b.H {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.W, a.H, b.W, b.H)
	}
	d := &pix.DiffMap{W: a.W, H: a.H, Pix: make([]uint8, len(a.Pix))}
	for i := range a.Pix {
		v := int(a.Pix[i]) - int(b.Pix[i])
		if v < 0 {
			v = -v
		}
		d.Pix[i] = uint8(v)
	}
	return d, nil
}

// Matrix is a dense float64 grid, the working type for analyses whose
// intermediate values exceed the 8-bit range.
type Matrix struct {
	W, H int
	Data []float64 // row-major, len == W*H
}

// NewMatrix allocates a zeroed matrix.
func NewMatrix(w, h int) *Matrix {
	return &Matrix{W: w, H: h, Data: make([]float64, w*h)}
}

// Normalize rescales the matrix linearly so its observed [min, max] spans
// the full 8-bit range. A constant matrix has no span to stretch and maps to
// all zeros instead of dividing by zero.
func Normalize(m *Matrix) *pix.Plane {
	out := pix.NewPlane(m.W, m.H)
	if len(m.Data) == 0 {
		return out
	}
	lo, hi := m.Data[0], m.Data[0]
	for _, v := range m.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return out
	}
	scale := 255 / (hi - lo)
	for i, v := range m.Data {
		out.Pix[i] = uint8(Clip(math.Round((v-lo)*scale), 0, 255))
	}
	return out
}

// NormalizeImage is Normalize with the plane replicated into a canonical
// 3-channel image for direct display.
func NormalizeImage(m *Matrix) *pix.Image {
	return pix.FromPlane(Normalize(m))
}

// HumanSize formats a byte count with binary-magnitude units.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
