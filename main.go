/*
Package main implements schedule2svg, a command that draws a release schedule
chart from a YAML or JSON description of version lifecycles.

Each version contributes one bar per lifecycle phase (current, active,
maintenance) plus any named sub-releases; a Master bar for ongoing development
spans the whole window unless excluded. The chart can be written as SVG, as an
HTML page embedding the SVG, and as PNG.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"schedule2svg/internal/config"
	"schedule2svg/internal/logger"
	"schedule2svg/internal/render"
	"schedule2svg/internal/schedule"
)

// defaultProject names rows when neither flags, config nor the schedule do.
const defaultProject = "Node.js"

// options holds the parsed command line.
type options struct {
	debug         bool
	dataFile      string
	configFile    string
	start         string
	end           string
	project       string
	excludeMaster bool
	animate       bool
	margin        string
	versions      string
	html          string
	svg           string
	png           string
	print         bool
	set           map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("schedule2svg", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{set: map[string]bool{}}
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.dataFile, "data", "", "Schedule file, YAML or JSON (required)")
	fs.StringVar(&o.configFile, "config", "", "YAML configuration file (optional)")
	fs.StringVar(&o.start, "start", "", "First date shown, e.g. 2022-01-01")
	fs.StringVar(&o.end, "end", "", "Last date shown, e.g. 2025-01-01")
	fs.StringVar(&o.project, "project", "", "Row name prefix (default: from config, schedule, or "+defaultProject+")")
	fs.BoolVar(&o.excludeMaster, "exclude-master", false, "Do not draw the Master bar")
	fs.BoolVar(&o.animate, "animate", false, "Animate bars in the SVG")
	fs.StringVar(&o.margin, "margin", "", "Margins as top,right,bottom,left (default 30,30,30,160)")
	fs.StringVar(&o.versions, "versions", "", "Only chart versions matching this constraint, e.g. '>=18'")
	fs.StringVar(&o.html, "html", "", "Output HTML filename (optional)")
	fs.StringVar(&o.svg, "svg", "", "Output SVG filename (optional)")
	fs.StringVar(&o.png, "png", "", "Output PNG filename (optional)")
	fs.BoolVar(&o.print, "print", false, "Print the derived intervals as YAML")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options]\n", fs.Name())
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nFlags override the configuration file, which overrides the defaults.\n")
		fmt.Fprintf(stderr, "If no output file is given, the data filename with .svg extension is used.\n")
		fmt.Fprintf(stderr, "\nExample:\n")
		fmt.Fprintf(stderr, "  %s --data schedule.json --start 2022-01-01 --end 2025-01-01 --svg schedule.svg --png schedule.png\n", fs.Name())
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.dataFile == "" {
		fs.Usage()
		return nil, errors.New("data file is required, use --data to specify it")
	}
	return o, nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *config.Config, o *options) error {
	if o.set["start"] {
		cfg.Chart.Start = o.start
	}
	if o.set["end"] {
		cfg.Chart.End = o.end
	}
	if o.set["project"] {
		cfg.Chart.Project = o.project
	}
	if o.set["versions"] {
		cfg.Chart.Versions = o.versions
	}
	if o.set["exclude-master"] {
		cfg.Chart.ExcludeMaster = o.excludeMaster
	}
	if o.set["animate"] {
		cfg.Chart.Animate = o.animate
	}
	if o.set["margin"] {
		if err := cfg.SetMargins(o.margin); err != nil {
			return err
		}
	}
	return nil
}

// getOutputFilename derives the default SVG filename from the data file by
// replacing its extension with .svg (e.g., "data/schedule.json" becomes
// "data/schedule.svg").
func getOutputFilename(dataFile string) string {
	ext := filepath.Ext(dataFile)
	return strings.TrimSuffix(dataFile, ext) + ".svg"
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, now time.Time) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level := "info"
	if o.debug {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: stderr})

	if err := generate(o, stdout, log, now); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func generate(o *options, stdout io.Writer, log *logger.Logger, now time.Time) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := applyFlags(&cfg, o); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.Debug().
		Int("width", cfg.Layout.Width).
		Int("height", cfg.Layout.Height).
		Bool("animate", cfg.Chart.Animate).
		Msg("configuration loaded")

	window, err := cfg.Window(now)
	if err != nil {
		return err
	}

	doc, err := schedule.Load(o.dataFile)
	if err != nil {
		return err
	}
	schedLog := log.Component("schedule")
	for _, path := range doc.InvalidDates() {
		schedLog.Warn().Str("field", path).Msg("unparsable date, phases bounded by it are skipped")
	}

	records, err := doc.Records.Filter(cfg.Chart.Versions)
	if err != nil {
		return err
	}
	schedLog.Info().
		Str("file", o.dataFile).
		Int("selected", len(records)).
		Int("total", len(doc.Records)).
		Msg("records loaded")
	schedLog.Debug().Strs("labels", records.Labels()).Msg("records selected")

	project := cfg.Chart.Project
	if project == "" {
		project = doc.Project
	}
	if project == "" {
		project = defaultProject
	}
	cfg.Chart.Project = project

	intervals, err := schedule.Derive(records, window, schedule.DeriveOptions{
		ExcludeMaster: cfg.Chart.ExcludeMaster,
		ProjectName:   project,
	})
	if err != nil {
		return err
	}
	log.LogDerived(len(records), len(intervals), window.Start, window.End)

	if o.print {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(intervals); err != nil {
			return fmt.Errorf("printing intervals: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("printing intervals: %w", err)
		}
	}

	targets := render.Targets{HTML: o.html, SVG: o.svg, PNG: o.png}
	if targets.Empty() {
		if o.print {
			return nil
		}
		targets.SVG = getOutputFilename(o.dataFile)
	}

	if err := render.New(cfg, log).Render(intervals, window, targets); err != nil {
		return err
	}

	for _, path := range []string{targets.HTML, targets.SVG, targets.PNG} {
		if path != "" && !o.print {
			fmt.Fprintf(stdout, "Release schedule generated successfully: %s\n", path)
		}
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now()))
}
