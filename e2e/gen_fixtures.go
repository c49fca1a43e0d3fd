//go:build ignore

// gen_fixtures creates small evidence images for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(dir, 0o755)

	// Genuine photo stand-in (PNG, never lossy-compressed).
	writePNG(filepath.Join(dir, "genuine.png"), gradient(400, 225))

	// Single-pass JPEG of the same scene.
	writeJPEG(filepath.Join(dir, "single-pass.jpg"), gradient(400, 225), 85)

	// Tampered JPEG: a block from a heavily recompressed copy spliced back
	// into the single-pass image, so the region carries a different
	// compression history than its surroundings.
	writeJPEG(filepath.Join(dir, "tampered.jpg"), splice(gradient(400, 225)), 85)

	// Grayscale source, exercises channel replication on load.
	writePNG(filepath.Join(dir, "gray.png"), grayRamp(120, 80))

	// Alpha image, exercises the drop-alpha path.
	writePNG(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// splice replaces a central block with the same pixels pushed through two
// aggressive JPEG round trips.
func splice(img *image.NRGBA) *image.NRGBA {
	degraded := img
	for i := 0; i < 2; i++ {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, degraded, &jpeg.Options{Quality: 35}); err != nil {
			panic(err)
		}
		dec, err := jpeg.Decode(&buf)
		if err != nil {
			panic(err)
		}
		degraded = toNRGBA(dec)
	}
	b := img.Bounds()
	region := image.Rect(b.Dx()/4, b.Dy()/4, b.Dx()/2, b.Dy()/2)
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, image.Point{}, draw.Src)
	draw.Draw(out, region, degraded, region.Min, draw.Src)
	return out
}

func toNRGBA(img image.Image) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, img.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func grayRamp(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) * 255 / (w + h))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writePNG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA, quality int) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		panic(err)
	}
}
