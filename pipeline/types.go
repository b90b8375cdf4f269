package pipeline

import (
	"time"

	ftracker "github.com/lucasjlepore/fit-tracker"
	"github.com/lucasjlepore/fit-tracker/fitimport"
	"go.uber.org/multierr"
)

// Output formats for the summaries artifact.
const (
	FormatJSONL   = "jsonl"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Options configures a batch run that reads inputs from disk and writes artifacts to OutDir.
type Options struct {
	InputPath string // .json|.csv|.toml package list
	FitPaths  []string
	Athlete   fitimport.Athlete
	OutDir    string
	Format    string // jsonl|csv|parquet
	Overwrite bool
}

// BytesOptions configures an in-memory run over already loaded packages.
type BytesOptions struct {
	SourceName string
	Packages   []ftracker.Package
	Format     string
}

// Result returns generated output paths and per-package outcomes.
type Result struct {
	OutputDir     string   `json:"output_dir"`
	ManifestPath  string   `json:"manifest_path"`
	SummariesPath string   `json:"summaries_path"`
	ReportPath    string   `json:"report_path"`
	Entries       []Entry  `json:"entries"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Err combines the failures of every package in the run, or nil if all succeeded.
func (r *Result) Err() error {
	return entriesErr(r.Entries)
}

// BytesResult holds in-memory artifacts keyed by file name.
type BytesResult struct {
	Files    map[string][]byte
	Entries  []Entry
	Warnings []string
}

// Err combines the failures of every package in the run, or nil if all succeeded.
func (r *BytesResult) Err() error {
	return entriesErr(r.Entries)
}

// Entry is the outcome of one package. Exactly one of Summary and Error is set.
type Entry struct {
	Index   int                   `json:"index"`
	Source  string                `json:"source"`
	Package ftracker.Package      `json:"package"`
	Summary *ftracker.InfoMessage `json:"summary,omitempty"`
	Error   string                `json:"error,omitempty"`

	err error
}

// Failed reports whether the package could not be computed.
func (e Entry) Failed() bool {
	return e.Summary == nil
}

// Manifest describes one run.
type Manifest struct {
	RunID          string         `json:"run_id"`
	GeneratedAt    time.Time      `json:"generated_at"`
	Format         string         `json:"format"`
	Sources        []SourceInfo   `json:"sources"`
	PackageCount   int            `json:"package_count"`
	SucceededCount int            `json:"succeeded_count"`
	FailedCount    int            `json:"failed_count"`
	CountsByType   map[string]int `json:"counts_by_type"`
	Files          []string       `json:"files"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// SourceInfo identifies one input file.
type SourceInfo struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"` // packages|fit|memory
	SHA256       string `json:"sha256,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	PackageCount int    `json:"package_count"`
}

func entriesErr(entries []Entry) error {
	var err error
	for _, e := range entries {
		if e.err != nil {
			err = multierr.Append(err, e.err)
		}
	}
	return err
}
