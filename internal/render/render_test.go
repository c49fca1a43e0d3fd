package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
)

func TestJetEndpoints(t *testing.T) {
	p := Jet()
	if p[0] != [3]uint8{0, 0, 128} {
		t.Errorf("palette[0] = %v, want half-intensity blue", p[0])
	}
	if p[255] != [3]uint8{128, 0, 0} {
		t.Errorf("palette[255] = %v, want half-intensity red", p[255])
	}
	// The middle of the ramp is green-dominant.
	mid := p[128]
	if mid[1] != 255 {
		t.Errorf("palette[128] = %v, want full green channel", mid)
	}
}

func TestApplyDimensionsAndMapping(t *testing.T) {
	p := Jet()
	plane := pix.NewPlane(3, 2)
	plane.Pix = []uint8{0, 64, 128, 192, 255, 0}

	im := p.Apply(plane)
	if im.W != 3 || im.H != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", im.W, im.H)
	}
	for i, v := range plane.Pix {
		j := i * pix.Channels
		want := p[v]
		got := [3]uint8{im.Pix[j], im.Pix[j+1], im.Pix[j+2]}
		if got != want {
			t.Errorf("pixel %d: got %v, want %v", i, got, want)
		}
	}
}

func TestHeatmapStretchesToPaletteEnds(t *testing.T) {
	// One cold pixel, one hot pixel: after normalization they must land on
	// the palette extremes regardless of their absolute magnitudes.
	d := &pix.DiffMap{W: 2, H: 1, Pix: []uint8{0, 0, 0, 3, 7, 5}}
	p := Jet()
	im := Heatmap(d, p)

	if got := [3]uint8{im.Pix[0], im.Pix[1], im.Pix[2]}; got != p[0] {
		t.Errorf("cold pixel = %v, want %v", got, p[0])
	}
	if got := [3]uint8{im.Pix[3], im.Pix[4], im.Pix[5]}; got != p[255] {
		t.Errorf("hot pixel = %v, want %v", got, p[255])
	}
}

func TestHeatmapConstantMapStaysCold(t *testing.T) {
	d := &pix.DiffMap{W: 2, H: 2, Pix: make([]uint8, 12)}
	for i := range d.Pix {
		d.Pix[i] = 9
	}
	p := Jet()
	im := Heatmap(d, p)
	for i := 0; i < 4; i++ {
		j := i * pix.Channels
		got := [3]uint8{im.Pix[j], im.Pix[j+1], im.Pix[j+2]}
		if got != p[0] {
			t.Fatalf("pixel %d = %v, want %v", i, got, p[0])
		}
	}
}

func TestPreviewBounds(t *testing.T) {
	im := pix.New(200, 100)
	small, err := Preview(im, 64)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if small.W > 64 || small.H > 64 {
		t.Errorf("preview %dx%d exceeds 64px bound", small.W, small.H)
	}
	if small.W != 64 {
		t.Errorf("longer side = %d, want 64", small.W)
	}

	passthrough, err := Preview(im, 500)
	if err != nil {
		t.Fatalf("Preview passthrough: %v", err)
	}
	if passthrough.W != 200 || passthrough.H != 100 {
		t.Errorf("small image resized to %dx%d", passthrough.W, passthrough.H)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	im := pix.New(8, 8)
	for i := range im.Pix {
		im.Pix[i] = uint8(i)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(im, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("saved file is empty")
	}
}
