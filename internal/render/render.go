// Package render turns raw analysis artifacts into viewable images: false
// color for difference maps, downscaled previews, and PNG output files. It
// is presentation code; nothing here feeds back into the analyzers.
package render

import (
	"bytes"

	"github.com/disintegration/imaging"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

// Palette maps a normalized 8-bit magnitude to an R, G, B color.
type Palette [256][3]uint8

// Jet builds the conventional blue-to-red forensic heatmap palette: low
// magnitudes run dark blue through cyan, high magnitudes yellow through dark
// red. The ramp is the standard piecewise-linear jet formula, so magnitude 0
// lands on half-intensity blue and 255 on half-intensity red.
func Jet() Palette {
	var p Palette
	for i := range p {
		x := float64(i) / 255
		p[i][0] = jetRamp(4*x - 3)
		p[i][1] = jetRamp(4*x - 2)
		p[i][2] = jetRamp(4*x - 1)
	}
	return p
}

func jetRamp(d float64) uint8 {
	if d < 0 {
		d = -d
	}
	return uint8(imgop.Clip((1.5-d)*255+0.5, 0, 255))
}

// Apply maps a single-channel plane through the palette into a color image.
func (p Palette) Apply(plane *pix.Plane) *pix.Image {
	out := pix.New(plane.W, plane.H)
	for i, v := range plane.Pix {
		c := p[v]
		j := i * pix.Channels
		out.Pix[j] = c[0]
		out.Pix[j+1] = c[1]
		out.Pix[j+2] = c[2]
	}
	return out
}

// Heatmap false-colors a difference map. Per-pixel magnitude is the largest
// channel difference, stretched over the observed range before the palette
// is applied, so the hottest color always marks the most divergent pixel. A
// constant map (including all-zero) renders entirely in the palette's low
// end.
func Heatmap(d *pix.DiffMap, p Palette) *pix.Image {
	m := imgop.NewMatrix(d.W, d.H)
	for i := range m.Data {
		j := i * pix.Channels
		v := d.Pix[j]
		if d.Pix[j+1] > v {
			v = d.Pix[j+1]
		}
		if d.Pix[j+2] > v {
			v = d.Pix[j+2]
		}
		m.Data[i] = float64(v)
	}
	return p.Apply(imgop.Normalize(m))
}

// Preview downscales the image to fit within maxDim on its longer side,
// preserving aspect ratio. Images already small enough pass through as a
// copy.
func Preview(im *pix.Image, maxDim int) (*pix.Image, error) {
	if im.W <= maxDim && im.H <= maxDim {
		return im.Clone(), nil
	}
	small := imaging.Fit(im.NRGBA(), maxDim, maxDim, imaging.Lanczos)
	return pix.FromImage(small)
}

// EncodePNG returns the image as PNG bytes, for callers that hash or embed
// the encoded output before writing it anywhere.
func EncodePNG(im *pix.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, im.NRGBA(), imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the image to path; the format is selected by extension
// (.png for lossless artifact output).
func Save(im *pix.Image, path string) error {
	return imaging.Save(im.NRGBA(), path)
}
