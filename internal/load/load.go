// Package load turns encoded image sources into canonical pixel buffers.
//
// Stdlib and golang.org/x/image codecs are registered for the common
// container formats, QOI is routed by its magic bytes, and RAW sensor dumps
// are delegated to an injected demosaicing capability. A load either yields
// a complete canonical image or an error, never a partial buffer.
package load

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrSourceUnavailable is returned when the source cannot be read at all,
// as opposed to being readable but undecodable.
var ErrSourceUnavailable = errors.New("load: source unavailable")

// RawDecoder demosaics a camera sensor dump into a displayable image. The
// capability is optional: a Loader without one rejects RAW sources with
// pix.ErrUnsupportedFormat instead of probing the environment.
type RawDecoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// Loader decodes image sources into canonical buffers. The zero value is
// ready to use and handles every registered container format; attach a
// RawDecoder to extend it to RAW sensor files.
type Loader struct {
	Raw RawDecoder
}

// rawExts lists the camera RAW container extensions routed to the
// demosaicing capability instead of the registered codecs.
var rawExts = map[string]bool{
	".arw": true,
	".cr2": true,
	".cr3": true,
	".dng": true,
	".nef": true,
	".orf": true,
	".pef": true,
	".raf": true,
	".rw2": true,
	".srw": true,
}

// IsRawPath reports whether the path names a camera RAW format by
// extension.
func IsRawPath(path string) bool {
	return rawExts[strings.ToLower(filepath.Ext(path))]
}

// Open reads and canonicalizes the image file at path. The returned format
// is the codec name ("jpeg", "png", "qoi", "raw", ...). Unreadable files
// yield ErrSourceUnavailable; readable but undecodable content yields
// pix.ErrUnsupportedFormat.
func (l *Loader) Open(path string) (*pix.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	if IsRawPath(path) {
		im, err := l.DecodeRaw(f)
		if err != nil {
			return nil, "", err
		}
		return im, "raw", nil
	}
	return l.Decode(f)
}

var qoiMagic = []byte("qoif")

// Decode canonicalizes an encoded image stream, detecting the codec from
// its leading bytes.
func (l *Loader) Decode(r io.Reader) (*pix.Image, string, error) {
	br := bufio.NewReader(r)

	if magic, err := br.Peek(len(qoiMagic)); err == nil && bytes.Equal(magic, qoiMagic) {
		img, err := qoi.Decode(br)
		if err != nil {
			return nil, "", fmt.Errorf("decode qoi: %w", err)
		}
		im, err := pix.FromImage(img)
		if err != nil {
			return nil, "", err
		}
		return im, "qoi", nil
	}

	img, format, err := image.Decode(br)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: unrecognized codec", pix.ErrUnsupportedFormat)
		}
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	im, err := pix.FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return im, format, nil
}

// DecodeRaw canonicalizes a RAW sensor stream through the attached
// demosaicing capability. Without one the loader degrades deterministically
// to pix.ErrUnsupportedFormat.
func (l *Loader) DecodeRaw(r io.Reader) (*pix.Image, error) {
	if l.Raw == nil {
		return nil, fmt.Errorf("%w: no raw demosaicing capability", pix.ErrUnsupportedFormat)
	}
	img, err := l.Raw.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode raw: %w", err)
	}
	return pix.FromImage(img)
}
