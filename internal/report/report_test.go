package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/artifact"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/recompress"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/stats"
)

func testSource() Source {
	return Source{
		Path: "evidence/photo.jpg", Format: "jpeg",
		Width: 800, Height: 600, SizeBytes: 100000, Hash: "abcd1234abcd1234",
	}
}

func testImage(w, h int) *pix.Image {
	im := pix.New(w, h)
	for i := range im.Pix {
		im.Pix[i] = uint8(i * 7)
	}
	return im
}

func TestReportRoundtrip(t *testing.T) {
	im := testImage(20, 10)
	var hist stats.Histogram
	hist[0] = 150
	hist[255] = 50
	curve := &recompress.Curve{Codec: "jpeg", Samples: []recompress.Sample{
		{Quality: 95, Divergence: 0.5},
		{Quality: 50, Divergence: 3.25},
	}}

	r := New("test-profile", testSource())
	err := r.AddArtifacts([]artifact.Artifact{
		artifact.NewHistogram("histogram", "luma", hist),
		artifact.NewCurve("recompression-curve", "sweep", curve),
		artifact.NewImage("equalize", "equalized", im),
	})
	if err != nil {
		t.Fatalf("add artifacts: %v", err)
	}

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, "look-dgc.report.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read back and parse.
	r2, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if r2.Version != SupportedReportVersion {
		t.Errorf("version: got %d, want %d", r2.Version, SupportedReportVersion)
	}
	if r2.Profile != "test-profile" {
		t.Errorf("profile: got %q", r2.Profile)
	}
	if r2.Source != testSource() {
		t.Errorf("source: got %+v", r2.Source)
	}
	if len(r2.Artifacts) != 3 {
		t.Fatalf("artifacts: got %d, want 3", len(r2.Artifacts))
	}

	he, ok := r2.Entry("histogram", "luma")
	if !ok || he.Histogram == nil {
		t.Fatal("histogram entry missing")
	}
	if he.Histogram[0] != 150 || he.Histogram[255] != 50 {
		t.Errorf("histogram counts changed: %d, %d", he.Histogram[0], he.Histogram[255])
	}

	ce, ok := r2.Entry("recompression-curve", "sweep")
	if !ok || ce.Curve == nil {
		t.Fatal("curve entry missing")
	}
	if len(ce.Curve.Samples) != 2 || ce.Curve.Samples[1].Divergence != 3.25 {
		t.Errorf("curve changed: %+v", ce.Curve)
	}

	ie, ok := r2.Entry("equalize", "equalized")
	if !ok {
		t.Fatal("image entry missing")
	}
	got, err := ie.Image()
	if err != nil {
		t.Fatalf("decode image payload: %v", err)
	}
	if got.W != im.W || got.H != im.H || !bytes.Equal(got.Pix, im.Pix) {
		t.Error("image payload not bit-identical after round trip")
	}

	if r2.Stats.TotalArtifacts != 3 {
		t.Errorf("total_artifacts: got %d", r2.Stats.TotalArtifacts)
	}
	if want := int64(20 * 10 * 3); r2.Stats.TotalRawBytes != want {
		t.Errorf("total_raw_bytes: got %d, want %d", r2.Stats.TotalRawBytes, want)
	}
}

func TestDiffPayloadRoundtrip(t *testing.T) {
	d := &pix.DiffMap{W: 4, H: 3, Pix: make([]uint8, 4*3*3)}
	for i := range d.Pix {
		d.Pix[i] = uint8(i)
	}

	r := New("test-profile", testSource())
	if err := r.AddArtifacts([]artifact.Artifact{
		artifact.NewDiff("recompression-heatmap", "heatmap", d),
	}); err != nil {
		t.Fatalf("add artifacts: %v", err)
	}

	got, err := r.Artifacts[0].Diff()
	if err != nil {
		t.Fatalf("decode diff payload: %v", err)
	}
	if got.W != d.W || got.H != d.H || !bytes.Equal(got.Pix, d.Pix) {
		t.Error("diff payload not bit-identical after round trip")
	}
}

func TestPayloadHashDetectsCorruption(t *testing.T) {
	p := compressPixels(testImage(8, 8).Pix, 8, 8, 3)

	bad := *p
	bad.Hash = "0000000000000000"
	if _, err := bad.Decode(); !errors.Is(err, ErrPayloadCorrupt) {
		t.Errorf("tampered hash: err = %v, want ErrPayloadCorrupt", err)
	}

	short := *p
	short.Width = 16
	if _, err := short.Decode(); !errors.Is(err, ErrPayloadCorrupt) {
		t.Errorf("tampered dimensions: err = %v, want ErrPayloadCorrupt", err)
	}

	wrongEnc := *p
	wrongEnc.Encoding = "gzip"
	if _, err := wrongEnc.Decode(); !errors.Is(err, ErrPayloadCorrupt) {
		t.Errorf("unknown encoding: err = %v, want ErrPayloadCorrupt", err)
	}
}

func TestEntryKindGuards(t *testing.T) {
	r := New("p", testSource())
	var hist stats.Histogram
	if err := r.AddArtifacts([]artifact.Artifact{
		artifact.NewHistogram("histogram", "red", hist),
	}); err != nil {
		t.Fatalf("add artifacts: %v", err)
	}
	if _, err := r.Artifacts[0].Image(); err == nil {
		t.Error("Image() succeeded on a histogram entry")
	}
	if _, err := r.Artifacts[0].Diff(); err == nil {
		t.Error("Diff() succeeded on a histogram entry")
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	// Simulate a future report with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"profile": "default",
		"future_field": "should be ignored",
		"source": { "path": "x.png", "format": "png", "width": 1, "height": 1, "size_bytes": 10, "hash": "ab", "new_flag": true },
		"artifacts": [],
		"stats": { "total_artifacts": 0, "total_raw_bytes": 0, "total_stored_bytes": 0, "new_stat": 42 }
	}`

	dir := t.TempDir()
	path := filepath.Join(dir, "r.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("load with unknown fields: %v", err)
	}
	if r.Version != 1 || r.Source.Path != "x.png" {
		t.Error("report not parsed correctly")
	}
}

func TestReportRejectsMalformedArtifact(t *testing.T) {
	r := New("p", testSource())
	err := r.AddArtifacts([]artifact.Artifact{{Analyzer: "x", Kind: artifact.KindImage}})
	if err == nil {
		t.Fatal("malformed artifact accepted")
	}
}
