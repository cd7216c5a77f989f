package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"schedule2svg/internal/config"
	"schedule2svg/internal/schedule"
)

// SVGOptions control SVG-only features.
type SVGOptions struct {
	// Animate grows each bar from zero width.
	Animate bool
	// Duration is the SVG clock value of the animation, e.g. "1s".
	Duration string
	// Declaration prefixes the document with an XML declaration. Off for
	// documents embedded in HTML.
	Declaration bool
}

// styles returns the stylesheet shared by every chart.
func styles(cfg config.Config) string {
	var b strings.Builder
	for _, typ := range []string{schedule.TypeCurrent, schedule.TypeActive, schedule.TypeMaintenance, schedule.TypeUnstable} {
		fmt.Fprintf(&b, ".%s { fill: %s; }\n", typ, cfg.ColorFor(typ))
	}
	fmt.Fprintf(&b, `.bar-join { fill: %s; }
.bar-join.unstable, .bar-join.current { display: none; }
.tick text { font: %dpx %s; fill: %s; }
.axis--y .tick text { text-anchor: end; }
.label { fill: %s; font: %dpx %s; font-weight: 100; text-anchor: start; dominant-baseline: middle; text-transform: uppercase; }
.rotated-label { fill: %s; font: %dpx %s; text-anchor: start; dominant-baseline: middle; text-transform: uppercase; }
`,
		cfg.Colors.BarJoin,
		cfg.Font.TickSize, cfg.Font.Family, cfg.Colors.Tick,
		cfg.Colors.Label, cfg.Font.LabelSize, cfg.Font.Family,
		cfg.Colors.Label, cfg.Font.RotatedLabelSize, cfg.Font.Family)
	return b.String()
}

// SVG renders the chart as an SVG document.
func (c *Chart) SVG(cfg config.Config, opts SVGOptions) string {
	var svg strings.Builder

	if opts.Declaration {
		svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", c.Width, c.Height)
	fmt.Fprintf(&svg, "<defs>\n<style type=\"text/css\"><![CDATA[\n%s]]></style>\n</defs>\n", styles(cfg))
	if cfg.Colors.Background != "" {
		fmt.Fprintf(&svg, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(cfg.Colors.Background))
	}
	fmt.Fprintf(&svg, `<g id="bar-container" transform="translate(%s, %s)">`+"\n", num(c.OffsetX), num(c.OffsetY))

	c.writeXAxis(&svg, cfg)
	c.writeYAxis(&svg, cfg)
	for _, bar := range c.Bars {
		writeBar(&svg, bar, opts)
	}

	svg.WriteString("</g>\n</svg>\n")
	return svg.String()
}

func (c *Chart) writeXAxis(svg *strings.Builder, cfg config.Config) {
	svg.WriteString(`<g class="axis axis--x" fill="none" text-anchor="middle">` + "\n")
	for _, tick := range c.XTicks {
		dash := ""
		if tick.Dashed {
			dash = ` stroke-dasharray="2,2"`
		}
		fmt.Fprintf(svg, `<g class="tick" transform="translate(%s,0)"><line stroke="%s" y2="%s"%s/><text y="0" dy="-10">%s</text></g>`+"\n",
			num(tick.X), escapeXML(cfg.Colors.Tick), num(c.PlotHeight), dash, escapeXML(tick.Text))
	}
	svg.WriteString("</g>\n")
}

func (c *Chart) writeYAxis(svg *strings.Builder, cfg config.Config) {
	svg.WriteString(`<g class="axis axis--y" fill="none">` + "\n")
	for _, row := range c.Rows {
		fmt.Fprintf(svg, `<g class="tick" transform="translate(0,%s)"><line stroke="%s" x2="%s"/><text x="0" dx="-10" dy="0.32em">%s</text></g>`+"\n",
			num(row.CenterY), escapeXML(cfg.Colors.Grid), num(c.PlotWidth), escapeXML(row.Name))
	}
	fmt.Fprintf(svg, `<line y1="%s" y2="%s" x2="%s" stroke="%s"/>`+"\n",
		num(c.PlotHeight), num(c.PlotHeight), num(c.PlotWidth), escapeXML(cfg.Colors.Tick))
	svg.WriteString("</g>\n")
}

func writeBar(svg *strings.Builder, bar Bar, opts SVGOptions) {
	typ := escapeXML(bar.Interval.Type)

	svg.WriteString("<g>")
	fmt.Fprintf(svg, `<rect class="bar %s" fill="%s" x="%s" y="%s" width="%s" height="%s"`,
		typ, escapeXML(bar.Fill), num(bar.X), num(bar.Y), num(bar.Width), num(bar.Height))
	if opts.Animate {
		fmt.Fprintf(svg, `><animate attributeName="width" from="0" to="%s" dur="%s"/></rect>`,
			num(bar.Width), escapeXML(opts.Duration))
	} else {
		svg.WriteString("/>")
	}

	opacity := 0
	if bar.ShowJoin {
		opacity = 1
	}
	fmt.Fprintf(svg, `<rect class="bar-join %s" x="%s" y="%s" width="2" height="%s" style="opacity: %d;"/>`,
		typ, num(bar.X-1), num(bar.Y), num(bar.Height), opacity)

	if l := bar.Label; l.Text != "" {
		if l.Rotated {
			fmt.Fprintf(svg, `<text class="rotated-label rotation" transform="translate(%s, %s) rotate(90)" x="%s" y="%s">%s</text>`,
				num(l.AnchorX), num(l.AnchorY), num(l.X), num(l.Y), escapeXML(l.Text))
		} else {
			fmt.Fprintf(svg, `<text class="label" x="%s" y="%s">%s</text>`,
				num(l.X), num(l.Y), escapeXML(l.Text))
		}
	}
	svg.WriteString("</g>\n")
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// escapeXML escapes special XML characters in a string to ensure valid SVG output.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
