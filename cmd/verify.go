package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tech-Psycho95/LOOK-DGC/internal/report"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <report_path>",
	Short: "Verify a report's structure, payload hashes and rendered files",
	Long: `Checks that a saved report is internally consistent: every entry carries
exactly the payload its kind declares, every embedded pixel payload
decompresses to bytes matching its content hash, and every referenced
rendered file is present on disk. A report that passes is bit-identical
to what the analysis produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, args []string) error {
	reportPath := args[0]

	r, err := report.Load(reportPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(reportPath)
	problems := verifyReport(r, baseDir)

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	if len(problems) == 0 {
		fmt.Printf("  %s report is valid\n", ok("✓"))
		fmt.Printf("  %s %d artifacts — all payload hashes match, all files present\n",
			ok("✓"), len(r.Artifacts))
		return nil
	}

	fmt.Printf("  %s report has %d problem(s):\n", bad("✗"), len(problems))
	for _, p := range problems {
		fmt.Printf("    • %s\n", p)
	}
	return fmt.Errorf("verification failed with %d problems", len(problems))
}

func verifyReport(r *report.Report, baseDir string) []string {
	var errs []string

	if r.Version != report.SupportedReportVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}
	if r.Source.Width <= 0 || r.Source.Height <= 0 {
		errs = append(errs, fmt.Sprintf("invalid source dimensions %dx%d",
			r.Source.Width, r.Source.Height))
	}
	if r.Source.Hash == "" {
		errs = append(errs, "missing source hash")
	}

	for i, e := range r.Artifacts {
		tag := fmt.Sprintf("artifact[%d] %s/%s", i, e.Analyzer, e.Label)
		if e.Analyzer == "" {
			errs = append(errs, fmt.Sprintf("artifact[%d]: missing analyzer tag", i))
		}

		// Exactly one payload, matching the declared kind.
		payloads := 0
		if e.Histogram != nil {
			payloads++
		}
		if e.LUT != nil {
			payloads++
		}
		if e.Curve != nil {
			payloads++
		}
		if e.Pixels != nil {
			payloads++
		}
		if payloads != 1 {
			errs = append(errs, fmt.Sprintf("%s: %d payloads, want exactly 1", tag, payloads))
			continue
		}

		switch e.Kind {
		case "histogram":
			if e.Histogram == nil {
				errs = append(errs, fmt.Sprintf("%s: kind/payload mismatch", tag))
			}
		case "lut":
			if e.LUT == nil {
				errs = append(errs, fmt.Sprintf("%s: kind/payload mismatch", tag))
			}
		case "curve":
			if e.Curve == nil {
				errs = append(errs, fmt.Sprintf("%s: kind/payload mismatch", tag))
				continue
			}
			for _, s := range e.Curve.Samples {
				if s.Quality < 1 || s.Quality > 100 {
					errs = append(errs, fmt.Sprintf("%s: sample quality %d out of range", tag, s.Quality))
				}
				if s.Divergence < 0 {
					errs = append(errs, fmt.Sprintf("%s: negative divergence %v", tag, s.Divergence))
				}
			}
		case "image", "diffmap":
			if e.Pixels == nil {
				errs = append(errs, fmt.Sprintf("%s: kind/payload mismatch", tag))
				continue
			}
			// Decode re-checks length and content hash.
			if _, err := e.Pixels.Decode(); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", tag, err))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown kind %q", tag, e.Kind))
		}

		if e.RenderPath != "" {
			if _, err := os.Stat(filepath.Join(baseDir, e.RenderPath)); err != nil {
				errs = append(errs, fmt.Sprintf("%s: rendered file not found: %s", tag, e.RenderPath))
			}
		}
	}

	if r.Stats.TotalArtifacts != len(r.Artifacts) {
		errs = append(errs, fmt.Sprintf("stats.total_artifacts mismatch: %d != %d",
			r.Stats.TotalArtifacts, len(r.Artifacts)))
	}
	return errs
}
