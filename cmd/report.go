package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/engine"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/imgop"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/report"
	"github.com/Tech-Psycho95/LOOK-DGC/internal/stats"
)

var reportCmd = &cobra.Command{
	Use:   "report <out_dir_or_report>",
	Short: "Summarize a saved analysis report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for the report inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, "look-dgc.report.json")
	}

	r, err := report.Load(path)
	if err != nil {
		return err
	}

	printReport(r)
	return nil
}

func printReport(r *report.Report) {
	head := color.New(color.Bold).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	fmt.Println()
	fmt.Printf("  Report version: %d\n", r.Version)
	fmt.Printf("  Generated:      %s\n", r.GeneratedAt)
	fmt.Printf("  Profile:        %s\n", r.Profile)
	fmt.Println()
	fmt.Printf("  %s\n", head("Source"))
	fmt.Printf("    Path:   %s\n", r.Source.Path)
	fmt.Printf("    Format: %s, %dx%d\n", r.Source.Format, r.Source.Width, r.Source.Height)
	fmt.Printf("    Size:   %s\n", imgop.HumanSize(r.Source.SizeBytes))
	fmt.Printf("    Hash:   %s\n", r.Source.Hash)
	fmt.Println()

	// Per-kind breakdown.
	kindCounts := map[string]int{}
	for _, e := range r.Artifacts {
		kindCounts[e.Kind]++
	}
	fmt.Printf("  %s\n", head("Artifacts"))
	for _, k := range []string{"histogram", "lut", "image", "curve", "diffmap"} {
		if n, ok := kindCounts[k]; ok {
			fmt.Printf("    %-10s %d\n", k, n)
		}
	}
	fmt.Printf("    payloads:  %s raw, %s stored\n",
		imgop.HumanSize(r.Stats.TotalRawBytes), imgop.HumanSize(r.Stats.TotalStoredBytes))
	fmt.Println()

	// Channel statistics from the embedded histograms.
	var histLines bool
	for _, e := range r.Artifacts {
		if e.Kind != "histogram" || e.Histogram == nil {
			continue
		}
		if !histLines {
			fmt.Printf("  %s\n", head("Channel statistics"))
			histLines = true
		}
		h := stats.Histogram(*e.Histogram)
		fmt.Printf("    %-6s mean %7.2f  stddev %7.2f  peak bin %d\n",
			e.Label, h.Mean(), h.StdDev(), h.Peak())
	}
	if histLines {
		fmt.Println()
	}

	// Recompression curve.
	if e, ok := r.Entry(engine.AnalyzerCurve, "sweep"); ok && e.Curve != nil {
		fmt.Printf("  %s (%s)\n", head("Recompression curve"), e.Curve.Codec)
		for _, s := range e.Curve.Samples {
			fmt.Printf("    q%-3d  %8.4f\n", s.Quality, s.Divergence)
		}
		fmt.Println()
	}

	// Rendered files.
	var rendered int
	for _, e := range r.Artifacts {
		if e.RenderPath != "" {
			rendered++
		}
	}
	fmt.Printf("  Rendered files: %d / %d pixel artifacts\n", rendered, kindCounts["image"]+kindCounts["diffmap"])

	if len(r.Failures) > 0 {
		fmt.Println()
		fmt.Printf("  Failures (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Printf("    %s %s: %s\n", bad("✗"), f.Analyzer, f.Error)
		}
	}
	fmt.Println()
}
