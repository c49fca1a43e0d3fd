package recompress

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

// JPEG is the default round-trip codec, backed by the standard library
// encoder. The stdlib encoder and decoder are pure Go and deterministic, so
// sweeps built on it are reproducible across platforms.
type JPEG struct{}

// Name implements Codec.
func (JPEG) Name() string { return "jpeg" }

// QualityRange implements Codec.
func (JPEG) QualityRange() (int, int) { return MinQuality, MaxQuality }

// Encode implements Codec. The stdlib encoder silently clamps out-of-range
// qualities; that would let a sweep measure a different quality than
// requested, so out-of-range values are rejected here instead.
func (JPEG) Encode(im *pix.Image, quality int) ([]byte, error) {
	if quality < MinQuality || quality > MaxQuality {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidQuality, quality, MinQuality, MaxQuality)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, im.NRGBA(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode implements Codec.
func (JPEG) Decode(data []byte) (*pix.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return pix.FromImage(img)
}
