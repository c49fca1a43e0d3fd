package report

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/artifact"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/hasher"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

// ErrPayloadCorrupt is returned when an embedded pixel payload fails its
// hash or shape check on decode.
var ErrPayloadCorrupt = errors.New("report: payload corrupt")

// Shared stateless zstd coders; both are safe for concurrent EncodeAll /
// DecodeAll use.
var (
	zenc = mustNewZstdEncoder()
	zdec = mustNewZstdDecoder()
)

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic(fmt.Sprintf("report: zstd encoder: %v", err))
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("report: zstd decoder: %v", err))
	}
	return dec
}

// compressPixels wraps a raw interleaved buffer into an embeddable payload.
func compressPixels(raw []uint8, w, h, channels int) *Pixels {
	return &Pixels{
		Width:    w,
		Height:   h,
		Channels: channels,
		Encoding: PayloadEncoding,
		Hash:     hasher.ContentHash(raw, HashLen),
		Data:     zenc.EncodeAll(raw, nil),
	}
}

// Decode decompresses the payload and verifies its length and content hash.
func (p *Pixels) Decode() ([]uint8, error) {
	if p.Encoding != PayloadEncoding {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrPayloadCorrupt, p.Encoding)
	}
	want := p.Width * p.Height * p.Channels
	raw, err := zdec.DecodeAll(p.Data, make([]byte, 0, want))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadCorrupt, err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrPayloadCorrupt, len(raw), want)
	}
	if got := hasher.ContentHash(raw, HashLen); got != p.Hash {
		return nil, fmt.Errorf("%w: hash %s, want %s", ErrPayloadCorrupt, got, p.Hash)
	}
	return raw, nil
}

// fromArtifact converts one analyzer artifact into a serializable entry.
func fromArtifact(a artifact.Artifact) (Entry, error) {
	if err := a.Validate(); err != nil {
		return Entry{}, err
	}
	e := Entry{Analyzer: a.Analyzer, Label: a.Label, Kind: a.Kind.String()}
	switch a.Kind {
	case artifact.KindHistogram:
		h := [256]int64(*a.Histogram)
		e.Histogram = &h
	case artifact.KindLUT:
		l := [256]uint8(*a.LUT)
		e.LUT = &l
	case artifact.KindCurve:
		e.Curve = a.Curve
	case artifact.KindImage:
		e.Pixels = compressPixels(a.Image.Pix, a.Image.W, a.Image.H, pix.Channels)
	case artifact.KindDiff:
		e.Pixels = compressPixels(a.Diff.Pix, a.Diff.W, a.Diff.H, pix.Channels)
	default:
		return Entry{}, fmt.Errorf("report: unknown artifact kind %v", a.Kind)
	}
	return e, nil
}

// Image reconstructs the canonical image embedded in an image entry.
func (e *Entry) Image() (*pix.Image, error) {
	if e.Kind != "image" || e.Pixels == nil {
		return nil, fmt.Errorf("report: entry %s/%s carries no image", e.Analyzer, e.Label)
	}
	raw, err := e.Pixels.Decode()
	if err != nil {
		return nil, err
	}
	return pix.FromRaw(raw, e.Pixels.Width, e.Pixels.Height, e.Pixels.Channels)
}

// Diff reconstructs the difference map embedded in a diffmap entry.
func (e *Entry) Diff() (*pix.DiffMap, error) {
	if e.Kind != "diffmap" || e.Pixels == nil {
		return nil, fmt.Errorf("report: entry %s/%s carries no diffmap", e.Analyzer, e.Label)
	}
	raw, err := e.Pixels.Decode()
	if err != nil {
		return nil, err
	}
	return &pix.DiffMap{W: e.Pixels.Width, H: e.Pixels.Height, Pix: raw}, nil
}
