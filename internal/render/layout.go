// Package render draws derived schedule intervals as a bar chart and writes
// it as SVG, HTML or PNG.
//
// Geometry is computed once by Build into a Chart; each encoder only walks
// that Chart, so every format shows the same bars, ticks and labels.
package render

import (
	"unicode/utf8"

	"schedule2svg/internal/config"
	"schedule2svg/internal/schedule"
)

// labelCharWidth is the width per character a bar needs to keep its label
// horizontal.
const labelCharWidth = 10

// XTick is one vertical grid line of the time axis.
type XTick struct {
	X      float64
	Text   string
	Dashed bool
}

// Row is one horizontal band of the chart.
type Row struct {
	Name    string
	CenterY float64
}

// Label is the text drawn on a bar.
type Label struct {
	Text    string
	X       float64
	Y       float64
	Rotated bool
	// Anchor is the translation applied before rotating.
	AnchorX float64
	AnchorY float64
}

// Bar is the geometry of one interval.
type Bar struct {
	Interval schedule.Interval
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Fill     string
	// ShowJoin is false for bars that do not follow another phase.
	ShowJoin bool
	Label    Label
}

// Chart is a fully laid out schedule chart in plot coordinates (origin at the
// top-left of the area inside the margins).
type Chart struct {
	Width      int
	Height     int
	OffsetX    float64
	OffsetY    float64
	PlotWidth  float64
	PlotHeight float64
	XTicks     []XTick
	Rows       []Row
	Bars       []Bar
}

// Build lays out intervals for window w.
func Build(cfg config.Config, intervals []schedule.Interval, w schedule.Window) *Chart {
	c := &Chart{
		Width:      cfg.Layout.Width,
		Height:     cfg.Layout.Height,
		OffsetX:    float64(cfg.Layout.MarginLeft),
		OffsetY:    float64(cfg.Layout.MarginTop),
		PlotWidth:  float64(cfg.PlotWidth()),
		PlotHeight: float64(cfg.PlotHeight()),
	}

	xs := TimeScale{Start: w.Start, End: w.End, Width: c.PlotWidth}

	names := make([]string, len(intervals))
	for i, iv := range intervals {
		names[i] = iv.Name
	}
	ys := NewBandScale(names, c.PlotHeight, cfg.Layout.BandPadding)
	bw := ys.Bandwidth()

	for i, t := range xs.Ticks(cfg.Layout.MaxTicks) {
		c.XTicks = append(c.XTicks, XTick{
			X:      xs.X(t),
			Text:   t.Format(cfg.Chart.TickFormat),
			Dashed: i%2 == 1,
		})
	}

	for _, name := range ys.Names() {
		y, _ := ys.Y(name)
		c.Rows = append(c.Rows, Row{Name: name, CenterY: y + bw/2})
	}

	for _, iv := range intervals {
		y, _ := ys.Y(iv.Name)
		x := xs.X(iv.Start)
		end := iv.End
		if iv.Open {
			end = w.End
		}
		width := xs.X(end) - x
		if width < 0 {
			width = 0
		}

		bar := Bar{
			Interval: iv,
			X:        x,
			Y:        y,
			Width:    width,
			Height:   bw,
			Fill:     cfg.ColorFor(iv.Type),
			ShowJoin: iv.Type != schedule.TypeUnstable && iv.Type != schedule.TypeCurrent && x > 0,
		}
		bar.Label = placeLabel(iv.Label, x, y, width, bw)
		c.Bars = append(c.Bars, bar)
	}

	return c
}

// placeLabel keeps the label inside the bar when it fits, otherwise turns it
// 90 degrees to hang from the bar start.
func placeLabel(text string, x, y, width, height float64) Label {
	centerY := y + height/2 + 2
	if width >= float64(utf8.RuneCountInString(text)*labelCharWidth) {
		return Label{Text: text, X: x + 10, Y: centerY}
	}
	return Label{
		Text:    text,
		X:       -20,
		Y:       -10,
		Rotated: true,
		AnchorX: x,
		AnchorY: centerY,
	}
}

// ClippedRows returns the row names likely wider than the left margin at the
// tick font size.
func (c *Chart) ClippedRows(fontSize int) []string {
	var clipped []string
	for _, r := range c.Rows {
		if float64(estimateTextWidth(r.Name, fontSize)+10) > c.OffsetX {
			clipped = append(clipped, r.Name)
		}
	}
	return clipped
}

// estimateTextWidth estimates the width of text in pixels based on character count
func estimateTextWidth(text string, fontSize int) int {
	// Rough estimation: average character width is about 0.6 * font size
	avgCharWidth := float64(fontSize) * 0.6
	return int(float64(utf8.RuneCountInString(text)) * avgCharWidth)
}
