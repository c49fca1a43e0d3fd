// Package pix defines the canonical pixel buffer every analyzer operates on.
//
// A canonical image is a dense W×H grid of three interleaved 8-bit channels
// in R, G, B order. Single-channel sources are replicated into all three
// channels on load, a 4th (alpha) channel is dropped with the first three
// passed through byte-for-byte, and nothing downstream ever sees a channel
// count other than three. Once constructed the buffer is treated as
// read-only: analyzers share it freely across goroutines and derive new
// buffers instead of mutating it.
package pix

import (
	"errors"
	"image"
)

// Channels is the canonical channel count. Every Image holds exactly this
// many channels regardless of what the source carried.
const Channels = 3

var (
	// ErrEmptyImage is returned when a source decodes to a zero-area buffer
	// or the supplied raw bytes cannot fill the declared dimensions.
	ErrEmptyImage = errors.New("pix: empty image")

	// ErrUnsupportedFormat is returned when the source layout cannot be
	// canonicalized (unknown channel count, or a RAW file with no
	// demosaicing capability supplied).
	ErrUnsupportedFormat = errors.New("pix: unsupported format")
)

// Image is the canonical 3-channel image buffer.
type Image struct {
	W, H int
	// Pix holds interleaved R, G, B bytes in row-major order.
	// The pixel at (x, y) starts at Pix[(y*W+x)*3].
	Pix []uint8
}

// New allocates a zeroed canonical image. w and h must be ≥ 1; invalid
// dimensions are a caller bug, mirrored after image.NewNRGBA which does not
// validate either.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]uint8, w*h*Channels)}
}

// FromRaw canonicalizes raw interleaved pixel bytes with a declared source
// channel count of 1, 3 or 4:
//
//	1 — the single channel is replicated into all three output channels
//	3 — bytes pass through unchanged
//	4 — the 4th channel is dropped; the first three pass through unchanged,
//	    with no compositing against any background
//
// The byte order of 3- and 4-channel sources is preserved as-is; callers
// declare buffers already laid out in canonical R, G, B order.
func FromRaw(data []byte, w, h, channels int) (*Image, error) {
	if w < 1 || h < 1 {
		return nil, ErrEmptyImage
	}
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, ErrUnsupportedFormat
	}
	if len(data) < w*h*channels {
		return nil, ErrEmptyImage
	}

	out := New(w, h)
	switch channels {
	case 1:
		for i, v := range data[:w*h] {
			j := i * 3
			out.Pix[j] = v
			out.Pix[j+1] = v
			out.Pix[j+2] = v
		}
	case 3:
		copy(out.Pix, data[:w*h*3])
	case 4:
		for i := 0; i < w*h; i++ {
			si := i * 4
			di := i * 3
			out.Pix[di] = data[si]
			out.Pix[di+1] = data[si+1]
			out.Pix[di+2] = data[si+2]
		}
	}
	return out, nil
}

// Clone returns an independent copy. Analyzers that produce a derived image
// clone first and write into the copy.
func (im *Image) Clone() *Image {
	out := &Image{W: im.W, H: im.H, Pix: make([]uint8, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Offset returns the index of the first channel of the pixel at (x, y).
func (im *Image) Offset(x, y int) int {
	return (y*im.W + x) * Channels
}

// Channel extracts one channel (0=R, 1=G, 2=B) as a standalone plane.
func (im *Image) Channel(c int) *Plane {
	p := NewPlane(im.W, im.H)
	for i := range p.Pix {
		p.Pix[i] = im.Pix[i*Channels+c]
	}
	return p
}

// NRGBA converts the canonical buffer into a fully opaque *image.NRGBA for
// handoff to encoders and rendering code built on the standard image types.
func (im *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
	for i := 0; i < im.W*im.H; i++ {
		si := i * Channels
		di := i * 4
		out.Pix[di] = im.Pix[si]
		out.Pix[di+1] = im.Pix[si+1]
		out.Pix[di+2] = im.Pix[si+2]
		out.Pix[di+3] = 0xff
	}
	return out
}

// Plane is a single-channel W×H byte grid. Histograms and other
// single-channel statistics consume planes so that channel selection is
// always an explicit caller decision.
type Plane struct {
	W, H int
	Pix  []uint8 // row-major, len == W*H
}

// NewPlane allocates a zeroed plane. w and h must be ≥ 1.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]uint8, w*h)}
}

// FromPlane replicates a single-channel plane into a canonical 3-channel
// image, the same conversion grayscale sources receive on load.
func FromPlane(p *Plane) *Image {
	out := New(p.W, p.H)
	for i, v := range p.Pix {
		j := i * Channels
		out.Pix[j] = v
		out.Pix[j+1] = v
		out.Pix[j+2] = v
	}
	return out
}

// DiffMap holds per-pixel absolute channel differences between two images of
// identical dimensions. It shares the canonical interleaved layout so it can
// be rendered or embedded like any other pixel buffer.
type DiffMap struct {
	W, H int
	Pix  []uint8 // interleaved per-channel |a-b|, len == W*H*3
}

// Mean returns the mean absolute difference across all pixels and channels,
// the scalar divergence used by recompression fingerprinting.
func (d *DiffMap) Mean() float64 {
	if len(d.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range d.Pix {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(d.Pix))
}

// Max returns the largest single-channel difference in the map.
func (d *DiffMap) Max() uint8 {
	var m uint8
	for _, v := range d.Pix {
		if v > m {
			m = v
		}
	}
	return m
}
