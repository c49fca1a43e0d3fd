package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "look-dgc",
	Short: "Forensic pixel analysis for digital images",
	Long: `look-dgc — runs a battery of tamper-detection diagnostics over a photo:
recompression fingerprinting, per-channel histograms, auto-contrast and
equalization remaps, and localized difference heatmaps.

Results are written as a self-contained JSON report with embedded,
content-hashed pixel payloads, plus rendered PNGs for visual review.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"look-dgc %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[look-dgc] "+format+"\n", args...)
	}
}
