package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/artifact"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/engine"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/hasher"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/load"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/pix"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/profile"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/render"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/report"
)

var (
	analyzeOutDir    string
	analyzeProfile   string
	analyzeWorkers   int
	analyzeQualities []int
	analyzeHeatmapQ  int
	analyzeClip      float64
	analyzeNoRender  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Run the full analyzer battery over an image and write a report",
	Long: `Loads an image (jpeg, png, gif, bmp, tiff, webp, qoi), canonicalizes it
to a 3-channel buffer, and runs every analyzer: per-channel histograms,
auto-contrast stretch, equalization, desaturation, the recompression
quality sweep, and the localized difference heatmap.

Artifacts are embedded in a JSON report; pixel artifacts are also rendered
to content-addressed PNGs: <stem>.<analyzer>.<label>.<hash>.png`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out", "o", "./look-dgc_out", "output directory")
	analyzeCmd.Flags().StringVarP(&analyzeProfile, "profile", "p", "default",
		fmt.Sprintf("analysis profile (%s)", strings.Join(profile.Names(), ", ")))
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	analyzeCmd.Flags().IntSliceVar(&analyzeQualities, "qualities", nil, "custom quality sweep (overrides profile)")
	analyzeCmd.Flags().IntVar(&analyzeHeatmapQ, "heatmap-quality", 0, "heatmap round-trip quality (0 = profile default)")
	analyzeCmd.Flags().Float64Var(&analyzeClip, "clip", -1, "auto-contrast clip fraction (negative = profile default)")
	analyzeCmd.Flags().BoolVar(&analyzeNoRender, "no-render", false, "skip PNG rendering, write only the report")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	srcPath := args[0]
	start := time.Now()

	// Resolve profile with flag overrides.
	prof := profile.Get(analyzeProfile)
	if analyzeQualities != nil {
		prof.Qualities = analyzeQualities
	}
	if analyzeHeatmapQ > 0 {
		prof.HeatmapQuality = analyzeHeatmapQ
	}
	if analyzeClip >= 0 {
		prof.ClipFraction = analyzeClip
	}

	logVerbose("input:   %s", srcPath)
	logVerbose("profile: %s (qualities=%v, heatmap=%d, clip=%v)",
		prof.Name, prof.Qualities, prof.HeatmapQuality, prof.ClipFraction)

	// Load and canonicalize.
	loader := &load.Loader{}
	im, format, err := loader.Open(srcPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", srcPath, err)
	}

	// Fingerprint the source file.
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("%w: %v", load.ErrSourceUnavailable, err)
	}
	src := report.Source{
		Path:      srcPath,
		Format:    format,
		Width:     im.W,
		Height:    im.H,
		SizeBytes: int64(len(raw)),
		Hash:      hasher.ContentHash(raw, report.HashLen),
	}
	logVerbose("source:  %dx%d %s, %s, hash %s",
		src.Width, src.Height, src.Format, imgop.HumanSize(src.SizeBytes), src.Hash)

	// Run the battery.
	eng := engine.New(engine.Config{Profile: prof, Workers: analyzeWorkers})
	var sink artifact.Collector
	failures, err := eng.Run(im, &sink)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "[look-dgc] analyzer %s failed: %v\n", f.Analyzer, f.Err)
	}

	// Assemble the report.
	rep := report.New(prof.Name, src)
	if err := rep.AddArtifacts(sink.Artifacts()); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	rep.AddFailures(failures)

	if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if !analyzeNoRender {
		if err := renderArtifacts(rep, &sink, analyzeOutDir, stem(srcPath)); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := renderPreview(im, analyzeOutDir, stem(srcPath)); err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
	}

	reportPath := filepath.Join(analyzeOutDir, "look-dgc.report.json")
	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printAnalyzeSummary(rep, failures, time.Since(start))
	return nil
}

// renderArtifacts writes every pixel artifact as a content-addressed PNG and
// records the relative path on the matching report entry.
func renderArtifacts(rep *report.Report, sink *artifact.Collector, outDir, stem string) error {
	jet := render.Jet()
	for _, a := range sink.Artifacts() {
		im := a.Image
		if a.Kind == artifact.KindDiff {
			im = render.Heatmap(a.Diff, jet)
		}
		if im == nil {
			continue // histograms, LUTs and curves have no pixel rendering
		}
		data, err := render.EncodePNG(im)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", a.Analyzer, a.Label, err)
		}
		name := fmt.Sprintf("%s.%s.%s.%s.png",
			stem, a.Analyzer, a.Label, hasher.ContentHash(data, report.HashLen))
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if e, ok := rep.Entry(a.Analyzer, a.Label); ok {
			e.RenderPath = name
		}
		logVerbose("rendered: %s (%s)", name, imgop.HumanSize(int64(len(data))))
	}
	return nil
}

// previewMaxDim bounds the longer side of the source preview PNG.
const previewMaxDim = 512

// renderPreview writes a downscaled copy of the source next to the
// artifacts, for quick visual reference against the remapped outputs.
func renderPreview(im *pix.Image, outDir, stem string) error {
	prev, err := render.Preview(im, previewMaxDim)
	if err != nil {
		return err
	}
	data, err := render.EncodePNG(prev)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s.source.preview.%s.png", stem, hasher.ContentHash(data, report.HashLen))
	if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
		return err
	}
	logVerbose("rendered: %s (%s)", name, imgop.HumanSize(int64(len(data))))
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printAnalyzeSummary(rep *report.Report, failures []engine.Failure, elapsed time.Duration) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	head := color.New(color.Bold).SprintFunc()

	fmt.Println()
	fmt.Printf("  %s\n", head("look-dgc analysis complete"))
	fmt.Println()
	fmt.Printf("  Source:     %s (%s, %dx%d, %s)\n",
		rep.Source.Path, rep.Source.Format, rep.Source.Width, rep.Source.Height,
		imgop.HumanSize(rep.Source.SizeBytes))
	fmt.Printf("  Profile:    %s\n", rep.Profile)
	fmt.Printf("  Artifacts:  %d (%s raw, %s stored)\n",
		rep.Stats.TotalArtifacts,
		imgop.HumanSize(rep.Stats.TotalRawBytes),
		imgop.HumanSize(rep.Stats.TotalStoredBytes))
	fmt.Printf("  Time:       %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	if e, found := rep.Entry(engine.AnalyzerCurve, "sweep"); found && e.Curve != nil {
		fmt.Printf("  Recompression curve (%s):\n", e.Curve.Codec)
		for _, s := range e.Curve.Samples {
			fmt.Printf("    q%-3d  %8.4f\n", s.Quality, s.Divergence)
		}
		fmt.Println()
	}

	if len(failures) == 0 {
		fmt.Printf("  %s all analyzers completed\n", ok("✓"))
	} else {
		for _, f := range failures {
			fmt.Printf("  %s %s: %v\n", bad("✗"), f.Analyzer, f.Err)
		}
	}
	fmt.Println()
}
