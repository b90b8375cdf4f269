package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ftracker "github.com/lucasjlepore/fit-tracker"
	"github.com/lucasjlepore/fit-tracker/fitimport"
	"github.com/lucasjlepore/fit-tracker/internal/config"
	"github.com/lucasjlepore/fit-tracker/internal/logging"
	"github.com/lucasjlepore/fit-tracker/pipeline"
	log "github.com/sirupsen/logrus"
)

type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ftracker", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var fitPaths pathList
	var (
		configPath = fs.String("config", "", "Path to a TOML config file")
		env        = fs.String("env", "development", "Config section: dev|development|prod|production")
		inputPath  = fs.String("input", "", "Package list to compute in batch (.json|.csv|.toml)")
		outDir     = fs.String("out", "", "Output directory for batch artifacts")
		format     = fs.String("format", "", "Batch summary format: jsonl|csv|parquet")
		overwrite  = fs.Bool("overwrite", true, "Allow writing into non-empty output directories")
		weightKG   = fs.Float64("weight", 0, "Athlete weight in kg, used for FIT import")
		height     = fs.Float64("height", 0, "Athlete height, used for walking sessions from FIT import")
		logLevel   = fs.String("log-level", "", "Log level: trace|debug|info|warn|error")
	)
	fs.Var(&fitPaths, "fit", "FIT activity file to import (repeatable)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [CODE value...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "Codes:\n")
		for _, code := range ftracker.Codes() {
			fmt.Fprintf(fs.Output(), "  %s %s\n", code, strings.Join(ftracker.Fields(code), " "))
		}
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*env, *configPath)
		if err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutDir = *outDir
		case "format":
			cfg.Format = *format
		case "overwrite":
			cfg.Overwrite = *overwrite
		case "weight":
			cfg.WeightKG = *weightKG
		case "height":
			cfg.Height = *height
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Stdout:        stderr,
	})

	switch {
	case *inputPath != "" || len(fitPaths) > 0:
		return runBatch(cfg, *inputPath, fitPaths, stdout, stderr)
	case fs.NArg() > 0:
		return runSingle(fs.Args(), stdout, stderr)
	default:
		return runPackages(ftracker.DefaultPackages(), stdout, stderr)
	}
}

func runSingle(args []string, stdout, stderr io.Writer) int {
	values := make([]float64, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Fprintf(stderr, "invalid value %q: %v\n", a, err)
			return 2
		}
		values = append(values, v)
	}
	return runPackages([]ftracker.Package{{Type: strings.ToUpper(args[0]), Data: values}}, stdout, stderr)
}

func runPackages(pkgs []ftracker.Package, stdout, stderr io.Writer) int {
	code := 0
	for _, p := range pkgs {
		msg, err := ftracker.ShowTrainingInfo(p.Type, p.Data)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			code = 1
			continue
		}
		fmt.Fprintln(stdout, msg)
	}
	return code
}

func runBatch(cfg *config.Config, inputPath string, fitPaths []string, stdout, stderr io.Writer) int {
	if strings.TrimSpace(cfg.OutDir) == "" {
		fmt.Fprintf(stderr, "batch mode needs an output directory (--out or out_dir in config)\n")
		return 2
	}

	result, err := pipeline.Run(pipeline.Options{
		InputPath: inputPath,
		FitPaths:  fitPaths,
		Athlete:   fitimport.Athlete{WeightKG: cfg.WeightKG, Height: cfg.Height},
		OutDir:    cfg.OutDir,
		Format:    cfg.Format,
		Overwrite: cfg.Overwrite,
	})
	if err != nil {
		fmt.Fprintf(stderr, "ftracker failed: %v\n", err)
		return 1
	}

	for _, e := range result.Entries {
		if e.Failed() {
			fmt.Fprintf(stderr, "package %d (%s %s): %s\n", e.Index, e.Source, e.Package.Type, e.Error)
			continue
		}
		fmt.Fprintln(stdout, e.Summary.Message())
	}
	log.Debugf("manifest: %s", result.ManifestPath)
	fmt.Fprintf(stdout, "summaries: %s\n", result.SummariesPath)
	fmt.Fprintf(stdout, "report:    %s\n", result.ReportPath)
	fmt.Fprintf(stdout, "manifest:  %s\n", result.ManifestPath)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "warning:   %s\n", w)
	}

	if result.Err() != nil {
		return 1
	}
	return 0
}
