// Package config holds the chart configuration read from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"schedule2svg/internal/schedule"
)

// Config represents the complete configuration for schedule chart generation.
// This structure maps directly to YAML configuration files. Every field has a
// default (see Default); a file only needs to name what it changes.
//
// Key configuration patterns:
//   - For a fixed window: set chart.start and chart.end
//   - For long windows with many short releases: raise layout.width so labels
//     stay horizontal
//   - For a per-line chart: set chart.versions to a constraint such as ">=18"
type Config struct {
	Font struct {
		Family           string `yaml:"family"`             // Font family for all text
		TickSize         int    `yaml:"tick_size"`          // Axis tick text size in pixels
		LabelSize        int    `yaml:"label_size"`         // Bar label size in pixels
		RotatedLabelSize int    `yaml:"rotated_label_size"` // Size of labels rotated onto narrow bars
	} `yaml:"font"`
	Colors struct {
		Background  string `yaml:"background"`  // Canvas fill; empty leaves SVG transparent and PNG white
		Current     string `yaml:"current"`     // Bar fill for the current phase
		Active      string `yaml:"active"`      // Bar fill for the active (LTS) phase
		Maintenance string `yaml:"maintenance"` // Bar fill for the maintenance phase
		Unstable    string `yaml:"unstable"`    // Bar fill for the Master bar
		Other       string `yaml:"other"`       // Bar fill for sub-release types without a color of their own
		BarJoin     string `yaml:"bar_join"`    // Marker drawn where one phase follows another
		Tick        string `yaml:"tick"`        // X axis tick lines and tick text
		Grid        string `yaml:"grid"`        // Y axis grid lines
		Label       string `yaml:"label"`       // Bar label text
	} `yaml:"colors"`
	Layout struct {
		Width        int     `yaml:"width"`         // Total canvas width in pixels
		Height       int     `yaml:"height"`        // Total canvas height in pixels
		MarginTop    int     `yaml:"margin_top"`    // Top margin in pixels
		MarginRight  int     `yaml:"margin_right"`  // Right margin in pixels
		MarginBottom int     `yaml:"margin_bottom"` // Bottom margin in pixels
		MarginLeft   int     `yaml:"margin_left"`   // Left margin in pixels, room for row names
		BandPadding  float64 `yaml:"band_padding"`  // Fraction of each row left empty around a bar (0..1)
		MaxTicks     int     `yaml:"max_ticks"`     // Upper bound on x axis ticks
	} `yaml:"layout"`
	Chart struct {
		Project           string `yaml:"project"`            // Row name prefix, overrides the schedule's own project
		Start             string `yaml:"start"`              // Window start date; empty means six months ago
		End               string `yaml:"end"`                // Window end date; empty means three years after start
		ExcludeMaster     bool   `yaml:"exclude_master"`     // Drop the synthetic Master row
		Animate           bool   `yaml:"animate"`            // Grow bars from zero width when the SVG loads
		AnimationDuration string `yaml:"animation_duration"` // SVG duration of the grow animation
		Versions          string `yaml:"versions"`           // Semantic version constraint selecting records
		TickFormat        string `yaml:"tick_format"`        // Go time layout for x axis ticks
	} `yaml:"chart"`
}

// Default returns the configuration used when no file is given. The canvas
// and colors reproduce the classic release schedule chart: 1600x500 with
// margins 30/30/30/160.
func Default() Config {
	var c Config

	c.Font.Family = "sans-serif"
	c.Font.TickSize = 16
	c.Font.LabelSize = 15
	c.Font.RotatedLabelSize = 10

	c.Colors.Current = "#5fa04e"
	c.Colors.Active = "#229ad6"
	c.Colors.Maintenance = "#b1bcc2"
	c.Colors.Unstable = "#e99c40"
	c.Colors.Other = "#229ad6"
	c.Colors.BarJoin = "#ffffff"
	c.Colors.Tick = "#89a19d"
	c.Colors.Grid = "#e1e7e7"
	c.Colors.Label = "#ffffff"

	c.Layout.Width = 1600
	c.Layout.Height = 500
	c.Layout.MarginTop = 30
	c.Layout.MarginRight = 30
	c.Layout.MarginBottom = 30
	c.Layout.MarginLeft = 160
	c.Layout.BandPadding = 0.3
	c.Layout.MaxTicks = 10

	c.Chart.AnimationDuration = "1s"
	c.Chart.TickFormat = "Jan 2006"

	return c
}

// Load reads configuration from a YAML file on top of Default. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// PlotWidth is the canvas width inside the margins.
func (c Config) PlotWidth() int {
	return c.Layout.Width - c.Layout.MarginLeft - c.Layout.MarginRight
}

// PlotHeight is the canvas height inside the margins.
func (c Config) PlotHeight() int {
	return c.Layout.Height - c.Layout.MarginTop - c.Layout.MarginBottom
}

// Validate reports settings that cannot produce a chart.
func (c Config) Validate() error {
	var errs []error
	if c.PlotWidth() <= 0 {
		errs = append(errs, fmt.Errorf("layout: plot width %d must be positive", c.PlotWidth()))
	}
	if c.PlotHeight() <= 0 {
		errs = append(errs, fmt.Errorf("layout: plot height %d must be positive", c.PlotHeight()))
	}
	if c.Layout.BandPadding < 0 || c.Layout.BandPadding >= 1 {
		errs = append(errs, fmt.Errorf("layout: band_padding %v must be in [0, 1)", c.Layout.BandPadding))
	}
	if c.Layout.MaxTicks < 1 {
		errs = append(errs, fmt.Errorf("layout: max_ticks %d must be at least 1", c.Layout.MaxTicks))
	}
	if c.Chart.TickFormat == "" {
		errs = append(errs, errors.New("chart: tick_format must not be empty"))
	}
	return multierr.Combine(errs...)
}

// SetMargins applies a "top,right,bottom,left" list such as "30,30,30,160".
func (c *Config) SetMargins(list string) error {
	parts := strings.Split(list, ",")
	if len(parts) != 4 {
		return fmt.Errorf("margin %q: want top,right,bottom,left", list)
	}

	var m [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("margin %q: %w", list, err)
		}
		if n < 0 {
			return fmt.Errorf("margin %q: values must not be negative", list)
		}
		m[i] = n
	}

	c.Layout.MarginTop, c.Layout.MarginRight, c.Layout.MarginBottom, c.Layout.MarginLeft = m[0], m[1], m[2], m[3]
	return nil
}

// Window resolves chart.start and chart.end into a query window. Missing
// bounds default relative to now: the start to the first day of the month six
// months back, the end to three years after the start.
func (c Config) Window(now time.Time) (schedule.Window, error) {
	var w schedule.Window

	if c.Chart.Start == "" {
		now = now.UTC()
		w.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -6, 0)
	} else {
		d := schedule.ParseDate(c.Chart.Start)
		if !d.Valid() {
			return w, fmt.Errorf("chart: invalid start date %q", c.Chart.Start)
		}
		w.Start = d.Time()
	}

	if c.Chart.End == "" {
		w.End = w.Start.AddDate(3, 0, 0)
	} else {
		d := schedule.ParseDate(c.Chart.End)
		if !d.Valid() {
			return w, fmt.Errorf("chart: invalid end date %q", c.Chart.End)
		}
		w.End = d.Time()
	}

	if !w.Start.Before(w.End) {
		return w, fmt.Errorf("chart: start %s must be before end %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
	return w, nil
}

// ColorFor returns the bar fill for an interval type.
func (c Config) ColorFor(typ string) string {
	switch typ {
	case schedule.TypeCurrent:
		return c.Colors.Current
	case schedule.TypeActive:
		return c.Colors.Active
	case schedule.TypeMaintenance:
		return c.Colors.Maintenance
	case schedule.TypeUnstable:
		return c.Colors.Unstable
	default:
		return c.Colors.Other
	}
}
