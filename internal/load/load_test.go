package load

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/xfmoulet/qoi"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

func gradientNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 9), G: uint8(y * 11), B: uint8(x + y), A: 255,
			})
		}
	}
	return img
}

// fakeRaw is a stand-in demosaicing capability returning a fixed image.
type fakeRaw struct {
	img image.Image
	err error
}

func (f *fakeRaw) Decode(io.Reader) (image.Image, error) { return f.img, f.err }

func TestDecodePNGRoundTrip(t *testing.T) {
	src := gradientNRGBA(20, 10)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	var l Loader
	im, format, err := l.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q, want png", format)
	}

	want, _ := pix.FromImage(src)
	if !bytes.Equal(im.Pix, want.Pix) {
		t.Fatal("lossless round trip changed pixels")
	}
}

func TestDecodeQOIRoundTrip(t *testing.T) {
	src := gradientNRGBA(16, 16)
	var buf bytes.Buffer
	if err := qoi.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	var l Loader
	im, format, err := l.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "qoi" {
		t.Fatalf("format = %q, want qoi", format)
	}

	want, _ := pix.FromImage(src)
	if !bytes.Equal(im.Pix, want.Pix) {
		t.Fatal("lossless round trip changed pixels")
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	var l Loader
	_, _, err := l.Decode(bytes.NewReader([]byte("definitely not an image")))
	if !errors.Is(err, pix.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	var l Loader
	_, _, err := l.Open(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestOpenRoutesRawExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.NEF")
	if err := os.WriteFile(path, []byte("sensor bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Loader{Raw: &fakeRaw{img: gradientNRGBA(4, 4)}}
	im, format, err := l.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if format != "raw" {
		t.Fatalf("format = %q, want raw", format)
	}
	if im.W != 4 || im.H != 4 {
		t.Fatalf("dims = %dx%d, want 4x4", im.W, im.H)
	}
}

func TestOpenRawWithoutCapability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.dng")
	if err := os.WriteFile(path, []byte("sensor bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	var l Loader
	_, _, err := l.Open(path)
	if !errors.Is(err, pix.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeRawEmptyResult(t *testing.T) {
	l := Loader{Raw: &fakeRaw{img: image.NewNRGBA(image.Rectangle{})}}
	_, err := l.DecodeRaw(bytes.NewReader(nil))
	if !errors.Is(err, pix.ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
}

func TestIsRawPath(t *testing.T) {
	cases := map[string]bool{
		"a/b/shot.dng":  true,
		"shot.CR2":      true,
		"shot.jpg":      false,
		"noextension":   false,
		"dir.dng/x.png": false,
	}
	for path, want := range cases {
		if got := IsRawPath(path); got != want {
			t.Errorf("IsRawPath(%q) = %v, want %v", path, got, want)
		}
	}
}
