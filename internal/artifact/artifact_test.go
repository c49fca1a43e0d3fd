package artifact

import (
	"testing"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/recompress"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/stats"
)

func TestConstructorsValidate(t *testing.T) {
	var h stats.Histogram
	artifacts := []Artifact{
		NewImage("contrast", "stretched", pix.New(2, 2)),
		NewLUT("contrast", "auto", imgop.Identity()),
		NewHistogram("histogram", "luma", h),
		NewCurve("recompression", "sweep", &recompress.Curve{Codec: "jpeg"}),
		NewDiff("recompression", "heatmap", &pix.DiffMap{W: 1, H: 1, Pix: make([]uint8, 3)}),
	}
	wantKinds := []Kind{KindImage, KindLUT, KindHistogram, KindCurve, KindDiff}
	for i, a := range artifacts {
		if err := a.Validate(); err != nil {
			t.Errorf("artifact %d invalid: %v", i, err)
		}
		if a.Kind != wantKinds[i] {
			t.Errorf("artifact %d kind = %v, want %v", i, a.Kind, wantKinds[i])
		}
	}
}

func TestValidateRejectsMissingTag(t *testing.T) {
	a := NewImage("", "x", pix.New(1, 1))
	if err := a.Validate(); err == nil {
		t.Fatal("missing analyzer tag accepted")
	}
}

func TestValidateRejectsNoPayload(t *testing.T) {
	a := Artifact{Analyzer: "x", Kind: KindImage}
	if err := a.Validate(); err == nil {
		t.Fatal("empty artifact accepted")
	}
}

func TestValidateRejectsMultiplePayloads(t *testing.T) {
	a := NewImage("x", "", pix.New(1, 1))
	l := imgop.Identity()
	a.LUT = &l
	if err := a.Validate(); err == nil {
		t.Fatal("double payload accepted")
	}
}

func TestValidateRejectsKindMismatch(t *testing.T) {
	a := NewImage("x", "", pix.New(1, 1))
	a.Kind = KindCurve
	if err := a.Validate(); err == nil {
		t.Fatal("mismatched kind accepted")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindImage:     "image",
		KindLUT:       "lut",
		KindHistogram: "histogram",
		KindCurve:     "curve",
		KindDiff:      "diffmap",
		Kind(42):      "kind(42)",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestSinkFunc(t *testing.T) {
	var seen []string
	sink := SinkFunc(func(a Artifact) error {
		seen = append(seen, a.Analyzer+"/"+a.Label)
		return nil
	})
	if err := sink.Emit(NewImage("luminance", "gray", pix.New(1, 1))); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(seen) != 1 || seen[0] != "luminance/gray" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	if err := c.Emit(NewImage("a", "one", pix.New(1, 1))); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := c.Emit(NewLUT("b", "two", imgop.Identity())); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	all := c.Artifacts()
	if len(all) != 2 || all[0].Analyzer != "a" || all[1].Analyzer != "b" {
		t.Fatalf("Artifacts() = %+v", all)
	}

	luts := c.ByKind(KindLUT)
	if len(luts) != 1 || luts[0].Label != "two" {
		t.Fatalf("ByKind(KindLUT) = %+v", luts)
	}

	if _, ok := c.Find("a", "one"); !ok {
		t.Fatal("Find missed emitted artifact")
	}
	if _, ok := c.Find("a", "nope"); ok {
		t.Fatal("Find matched nonexistent label")
	}
}

func TestCollectorRejectsMalformed(t *testing.T) {
	var c Collector
	if err := c.Emit(Artifact{Analyzer: "x", Kind: KindImage}); err == nil {
		t.Fatal("malformed artifact accepted")
	}
	if len(c.Artifacts()) != 0 {
		t.Fatal("malformed artifact stored")
	}
}
