package render

import (
	"io"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"schedule2svg/internal/config"
)

// defaultPNGBackground fills PNGs when no background color is configured.
const defaultPNGBackground = "#ffffff"

// Paint draws the chart onto a new raster context.
//
// Text uses the fixed 7x13 bitmap face, so font sizes from the configuration
// only affect the SVG.
func (c *Chart) Paint(cfg config.Config) *gg.Context {
	dc := gg.NewContext(c.Width, c.Height)

	bg := cfg.Colors.Background
	if bg == "" {
		bg = defaultPNGBackground
	}
	dc.SetHexColor(bg)
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)
	dc.Translate(c.OffsetX, c.OffsetY)
	dc.SetLineWidth(1)

	for _, tick := range c.XTicks {
		dc.SetHexColor(cfg.Colors.Tick)
		if tick.Dashed {
			dc.SetDash(2, 2)
		} else {
			dc.SetDash()
		}
		dc.DrawLine(tick.X, 0, tick.X, c.PlotHeight)
		dc.Stroke()
		dc.DrawStringAnchored(tick.Text, tick.X, -10, 0.5, 0)
	}
	dc.SetDash()

	for _, row := range c.Rows {
		dc.SetHexColor(cfg.Colors.Grid)
		dc.DrawLine(0, row.CenterY, c.PlotWidth, row.CenterY)
		dc.Stroke()
		dc.SetHexColor(cfg.Colors.Tick)
		dc.DrawStringAnchored(row.Name, -10, row.CenterY, 1, 0.5)
	}
	dc.SetHexColor(cfg.Colors.Tick)
	dc.DrawLine(0, c.PlotHeight, c.PlotWidth, c.PlotHeight)
	dc.Stroke()

	for _, bar := range c.Bars {
		dc.SetHexColor(bar.Fill)
		dc.DrawRectangle(bar.X, bar.Y, bar.Width, bar.Height)
		dc.Fill()

		if bar.ShowJoin {
			dc.SetHexColor(cfg.Colors.BarJoin)
			dc.DrawRectangle(bar.X-1, bar.Y, 2, bar.Height)
			dc.Fill()
		}

		l := bar.Label
		if l.Text == "" {
			continue
		}
		dc.SetHexColor(cfg.Colors.Label)
		text := strings.ToUpper(l.Text)
		if !l.Rotated {
			dc.DrawStringAnchored(text, l.X, l.Y, 0, 0.5)
			continue
		}
		dc.Push()
		dc.Translate(l.AnchorX, l.AnchorY)
		dc.Rotate(gg.Radians(90))
		dc.DrawStringAnchored(text, l.X, l.Y, 0, 0.5)
		dc.Pop()
	}

	return dc
}

// WritePNG encodes the painted chart as PNG.
func (c *Chart) WritePNG(w io.Writer, cfg config.Config) error {
	return c.Paint(cfg).EncodePNG(w)
}
