// Package report serializes one analysis run into a self-contained JSON
// document: the source fingerprint, every artifact the battery emitted, and
// any analyzers that failed. Pixel payloads are embedded zstd-compressed and
// content-hashed so a saved report can be re-verified bit for bit.
package report

import (
	"github.com/Tech-Psycho95/LOOK-DGC/internal/recompress"
)

// Report is the top-level output of one analysis run.
type Report struct {
	Version     int      `json:"version"`
	GeneratedAt string   `json:"generated_at"`
	Profile     string   `json:"profile"`
	Source      Source   `json:"source"`
	Artifacts   []Entry  `json:"artifacts"`
	Failures    []Fail   `json:"failures,omitempty"`
	Stats       Stats    `json:"stats"`
}

// Source fingerprints the analyzed file.
type Source struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int64  `json:"size_bytes"`
	Hash      string `json:"hash"` // 16 hex chars of xxhash64 over the file bytes
}

// Entry is one serialized artifact. Exactly one payload field is set,
// matching Kind.
type Entry struct {
	Analyzer string `json:"analyzer"`
	Label    string `json:"label,omitempty"`
	Kind     string `json:"kind"` // "image", "lut", "histogram", "curve", "diffmap"

	Histogram *[256]int64       `json:"histogram,omitempty"`
	LUT       *[256]uint8       `json:"lut,omitempty"`
	Curve     *recompress.Curve `json:"curve,omitempty"`
	Pixels    *Pixels           `json:"pixels,omitempty"` // image and diffmap kinds

	// RenderPath points at the rendered PNG for this entry, relative to
	// the report file, when the frontend wrote one.
	RenderPath string `json:"render_path,omitempty"`
}

// Pixels embeds a raw interleaved pixel buffer, zstd-compressed.
type Pixels struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	Encoding string `json:"encoding"` // always "zstd"
	Hash     string `json:"hash"`     // 16 hex chars of xxhash64 over the raw bytes
	Data     []byte `json:"data"`     // compressed bytes, base64 in JSON
}

// Fail records one analyzer that produced nothing.
type Fail struct {
	Analyzer string `json:"analyzer"`
	Error    string `json:"error"`
}

// Stats aggregates payload metrics.
type Stats struct {
	TotalArtifacts   int   `json:"total_artifacts"`
	TotalRawBytes    int64 `json:"total_raw_bytes"`
	TotalStoredBytes int64 `json:"total_stored_bytes"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1

// PayloadEncoding is the only pixel payload encoding this schema emits.
const PayloadEncoding = "zstd"

// HashLen is the hex length of every content hash in the document.
const HashLen = 16
