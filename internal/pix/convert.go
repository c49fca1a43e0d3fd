package pix

import (
	"image"
)

// YCbCr to RGB conversion tables. Precomputing the per-value contributions
// keeps the hot loop in pure table lookups while producing bit-identical
// output to image/color's YCbCrToRGB, so canonical buffers stay reproducible
// across runs and platforms.
var (
	ycbcrCrR [256]int32
	ycbcrCbG [256]int32
	ycbcrCrG [256]int32
	ycbcrCbB [256]int32
)

func init() {
	for i := 0; i < 256; i++ {
		c := int32(i) - 128
		ycbcrCrR[i] = 91881 * c
		ycbcrCbG[i] = -22554 * c
		ycbcrCrG[i] = -46802 * c
		ycbcrCbB[i] = 116130 * c
	}
}

// FromImage canonicalizes a decoded standard-library image. Common concrete
// types get direct Pix access; everything else goes through the generic
// color interface. Alpha is dropped, never composited: an NRGBA pixel keeps
// its stored R, G, B bytes, and premultiplied RGBA is un-premultiplied with
// the same integer arithmetic color.NRGBAModel uses.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, ErrEmptyImage
	}

	out := New(w, h)
	switch img := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			si := img.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * w * Channels
			for x := 0; x < w; x++ {
				out.Pix[di] = img.Pix[si]
				out.Pix[di+1] = img.Pix[si+1]
				out.Pix[di+2] = img.Pix[si+2]
				si += 4
				di += 3
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			si := img.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * w * Channels
			for x := 0; x < w; x++ {
				a := uint32(img.Pix[si+3])
				switch a {
				case 0xff:
					out.Pix[di] = img.Pix[si]
					out.Pix[di+1] = img.Pix[si+1]
					out.Pix[di+2] = img.Pix[si+2]
				case 0:
					// fully transparent premultiplied pixels carry no color
				default:
					out.Pix[di] = uint8((uint32(img.Pix[si]) * 0xffff / a) >> 8)
					out.Pix[di+1] = uint8((uint32(img.Pix[si+1]) * 0xffff / a) >> 8)
					out.Pix[di+2] = uint8((uint32(img.Pix[si+2]) * 0xffff / a) >> 8)
				}
				si += 4
				di += 3
			}
		}
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			di := y * w * Channels
			for x := 0; x < w; x++ {
				yi := img.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := img.COffset(b.Min.X+x, b.Min.Y+y)
				yy := int32(img.Y[yi]) * 0x10101
				cb := img.Cb[ci]
				cr := img.Cr[ci]

				r := yy + ycbcrCrR[cr]
				if uint32(r)&0xff000000 == 0 {
					r >>= 16
				} else {
					r = ^(r >> 31)
				}
				g := yy + ycbcrCbG[cb] + ycbcrCrG[cr]
				if uint32(g)&0xff000000 == 0 {
					g >>= 16
				} else {
					g = ^(g >> 31)
				}
				bb := yy + ycbcrCbB[cb]
				if uint32(bb)&0xff000000 == 0 {
					bb >>= 16
				} else {
					bb = ^(bb >> 31)
				}

				out.Pix[di] = uint8(r)
				out.Pix[di+1] = uint8(g)
				out.Pix[di+2] = uint8(bb)
				di += 3
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			si := img.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * w * Channels
			for x := 0; x < w; x++ {
				v := img.Pix[si]
				out.Pix[di] = v
				out.Pix[di+1] = v
				out.Pix[di+2] = v
				si++
				di += 3
			}
		}
	default:
		di := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bb, a := src.At(x, y).RGBA()
				if a != 0 && a != 0xffff {
					r = r * 0xffff / a
					g = g * 0xffff / a
					bb = bb * 0xffff / a
				}
				out.Pix[di] = uint8(r >> 8)
				out.Pix[di+1] = uint8(g >> 8)
				out.Pix[di+2] = uint8(bb >> 8)
				di += 3
			}
		}
	}
	return out, nil
}
