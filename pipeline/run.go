package pipeline

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	ftracker "github.com/lucasjlepore/fit-tracker"
	"github.com/lucasjlepore/fit-tracker/fitimport"
	log "github.com/sirupsen/logrus"
)

const (
	manifestFileName = "manifest.json"
	reportFileName   = "report.txt"
)

type sourcedPackage struct {
	source string
	pkg    ftracker.Package
}

// Run loads every input, computes each package independently and writes the artifacts into OutDir.
// A package that fails to compute is recorded in its Entry and never aborts the others;
// Run itself only fails on unreadable inputs or output errors.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" && len(opts.FitPaths) == 0 {
		return nil, fmt.Errorf("an input package file or at least one FIT file is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	var (
		batch    []sourcedPackage
		sources  []SourceInfo
		warnings []string
	)

	if strings.TrimSpace(opts.InputPath) != "" {
		data, err := os.ReadFile(opts.InputPath)
		if err != nil {
			return nil, fmt.Errorf("read package file: %w", err)
		}
		pkgs, err := ParsePackages(opts.InputPath, data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", opts.InputPath, err)
		}
		name := filepath.Base(opts.InputPath)
		sources = append(sources, fileSource(name, "packages", data, len(pkgs)))
		for _, p := range pkgs {
			batch = append(batch, sourcedPackage{source: name, pkg: p})
		}
	}

	for _, path := range opts.FitPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read FIT file: %w", err)
		}
		imported, err := fitimport.ReadBytes(data, opts.Athlete)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		name := filepath.Base(path)
		for _, w := range imported.Warnings {
			warnings = append(warnings, name+": "+w)
		}
		pkgs := imported.Packages()
		sources = append(sources, fileSource(name, "fit", data, len(pkgs)))
		for _, p := range pkgs {
			batch = append(batch, sourcedPackage{source: name, pkg: p})
		}
	}

	if len(batch) == 0 {
		return nil, fmt.Errorf("no workout packages found in the inputs")
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	entries := computeEntries(batch)
	files, err := renderArtifacts(format, entries, sources, warnings)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(opts.OutDir, name), files[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	res := &Result{
		OutputDir:     opts.OutDir,
		ManifestPath:  filepath.Join(opts.OutDir, manifestFileName),
		SummariesPath: filepath.Join(opts.OutDir, summariesFileName(format)),
		ReportPath:    filepath.Join(opts.OutDir, reportFileName),
		Entries:       entries,
		Warnings:      warnings,
	}
	log.WithFields(log.Fields{
		"out_dir":  opts.OutDir,
		"packages": len(entries),
		"failed":   countFailed(entries),
	}).Info("batch complete")
	return res, nil
}

// RunPackages computes the packages and returns the artifacts in memory, keyed by file name.
func RunPackages(opts BytesOptions) (*BytesResult, error) {
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no workout packages to compute")
	}
	name := opts.SourceName
	if strings.TrimSpace(name) == "" {
		name = "memory"
	}

	batch := make([]sourcedPackage, 0, len(opts.Packages))
	for _, p := range opts.Packages {
		batch = append(batch, sourcedPackage{source: name, pkg: p})
	}
	sources := []SourceInfo{{Name: name, Kind: "memory", PackageCount: len(batch)}}

	entries := computeEntries(batch)
	files, err := renderArtifacts(format, entries, sources, nil)
	if err != nil {
		return nil, err
	}
	return &BytesResult{Files: files, Entries: entries}, nil
}

func computeEntries(batch []sourcedPackage) []Entry {
	entries := make([]Entry, 0, len(batch))
	for i, sp := range batch {
		e := Entry{Index: i, Source: sp.source, Package: sp.pkg}
		t, err := sp.pkg.Read()
		if err != nil {
			e.err = fmt.Errorf("package %d (%s): %w", i, sp.source, err)
			e.Error = err.Error()
			log.WithFields(log.Fields{"index": i, "source": sp.source, "type": sp.pkg.Type}).
				Warnf("skip package: %v", err)
		} else {
			info := t.TrainingInfo()
			e.Summary = &info
			log.WithFields(log.Fields{"index": i, "source": sp.source, "type": sp.pkg.Type}).
				Debugf("computed %.3f km, %.3f kcal", info.Distance, info.Calories)
		}
		entries = append(entries, e)
	}
	return entries
}

func renderArtifacts(format string, entries []Entry, sources []SourceInfo, warnings []string) (map[string][]byte, error) {
	files := make(map[string][]byte, 3)

	var (
		summaries []byte
		err       error
	)
	switch format {
	case FormatJSONL:
		summaries, err = marshalSummariesJSONL(entries)
	case FormatCSV:
		summaries, err = marshalSummariesCSV(entries)
	case FormatParquet:
		summaries, err = marshalSummariesParquet(entries)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s summaries: %w", format, err)
	}
	files[summariesFileName(format)] = summaries
	files[reportFileName] = []byte(renderReport(entries))

	manifest := buildManifest(format, entries, sources, warnings)
	for name := range files {
		manifest.Files = append(manifest.Files, name)
	}
	manifest.Files = append(manifest.Files, manifestFileName)
	sort.Strings(manifest.Files)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", manifestFileName, err)
	}
	files[manifestFileName] = append(data, '\n')
	return files, nil
}

func buildManifest(format string, entries []Entry, sources []SourceInfo, warnings []string) Manifest {
	m := Manifest{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Format:       format,
		Sources:      sources,
		PackageCount: len(entries),
		CountsByType: make(map[string]int),
		Warnings:     warnings,
	}
	for _, e := range entries {
		if e.Failed() {
			m.FailedCount++
			continue
		}
		m.SucceededCount++
		m.CountsByType[e.Package.Type]++
	}
	return m
}

// renderReport prints one summary line per package, with failures in place.
func renderReport(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Failed() {
			fmt.Fprintf(&b, "error: package %d (%s %s): %s\n", e.Index, e.Source, e.Package.Type, e.Error)
			continue
		}
		b.WriteString(e.Summary.Message())
		b.WriteByte('\n')
	}
	return b.String()
}

type summaryJSONRow struct {
	Index   int                   `json:"index"`
	Source  string                `json:"source"`
	Type    string                `json:"type"`
	Data    []any                 `json:"data"`
	Summary *ftracker.InfoMessage `json:"summary,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func marshalSummariesJSONL(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		row := summaryJSONRow{
			Index:   e.Index,
			Source:  e.Source,
			Type:    e.Package.Type,
			Data:    jsonValues(e.Package.Data),
			Summary: e.Summary,
			Error:   e.Error,
		}
		if err := enc.Encode(row); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var summaryCSVHeader = []string{
	"index", "source", "type", "data", "training_type", "duration_h", "distance_km", "speed_kmh", "calories_kcal", "error",
}

func marshalSummariesCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(summaryCSVHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		values := make([]string, 0, len(e.Package.Data))
		for _, v := range e.Package.Data {
			values = append(values, formatFloat(v))
		}
		row := []string{
			strconv.Itoa(e.Index),
			e.Source,
			e.Package.Type,
			strings.Join(values, " "),
			"", "", "", "", "",
			e.Error,
		}
		if s := e.Summary; s != nil {
			row[4] = s.TrainingType
			row[5] = formatFloat(s.Duration)
			row[6] = formatFloat(s.Distance)
			row[7] = formatFloat(s.Speed)
			row[8] = formatFloat(s.Calories)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSONL
	}
	switch format {
	case FormatJSONL, FormatCSV, FormatParquet:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected jsonl|csv|parquet)", format)
	}
}

func summariesFileName(format string) string {
	return "summaries." + format
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func fileSource(name, kind string, data []byte, packages int) SourceInfo {
	sum := sha256.Sum256(data)
	return SourceInfo{
		Name:         name,
		Kind:         kind,
		SHA256:       hex.EncodeToString(sum[:]),
		SizeBytes:    int64(len(data)),
		PackageCount: packages,
	}
}

func countFailed(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Failed() {
			n++
		}
	}
	return n
}

// jsonValues keeps non-finite readings representable in JSON.
func jsonValues(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = formatFloat(v)
			continue
		}
		out[i] = v
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
