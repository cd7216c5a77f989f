package render

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedule2svg/internal/config"
	"schedule2svg/internal/logger"
	"schedule2svg/internal/schedule"
)

func testWindow() schedule.Window {
	return schedule.Window{Start: ymd(2022, 1, 1), End: ymd(2023, 1, 1)}
}

func testIntervals() []schedule.Interval {
	return []schedule.Interval{
		{Name: "Master", Type: schedule.TypeUnstable, Start: ymd(2022, 1, 1), End: ymd(2023, 1, 1)},
		{Name: "Node 18", Type: schedule.TypeActive, Label: "active", Start: ymd(2022, 10, 1), End: ymd(2024, 4, 1)},
		{Name: "Node 18", Type: schedule.TypeCurrent, Label: "current", Start: ymd(2022, 4, 1), End: ymd(2022, 10, 1)},
		{Name: "Node 18", Type: "security", Label: "v18.1.0 <sec>", Start: ymd(2022, 6, 1), End: ymd(2022, 6, 8)},
		{Name: "Node 19", Type: schedule.TypeActive, Label: "nightly", Start: ymd(2022, 11, 1), Open: true},
	}
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	chart := Build(cfg, testIntervals(), testWindow())

	assert.Equal(t, 1600, chart.Width)
	assert.Equal(t, 500, chart.Height)
	assert.Equal(t, 160.0, chart.OffsetX)
	assert.Equal(t, 30.0, chart.OffsetY)
	require.Len(t, chart.Rows, 3)
	assert.Equal(t, "Master", chart.Rows[0].Name)
	assert.Equal(t, "Node 19", chart.Rows[2].Name)
	require.Len(t, chart.Bars, 5)

	t.Run("master spans the plot", func(t *testing.T) {
		b := chart.Bars[0]
		assert.Zero(t, b.X)
		assert.InDelta(t, chart.PlotWidth, b.Width, 1e-9)
		assert.False(t, b.ShowJoin)
		assert.Empty(t, b.Label.Text)
		assert.Equal(t, cfg.Colors.Unstable, b.Fill)
	})

	t.Run("bar past the window is clamped", func(t *testing.T) {
		b := chart.Bars[1]
		assert.InDelta(t, chart.PlotWidth, b.X+b.Width, 1e-9)
		assert.True(t, b.ShowJoin)
		assert.False(t, b.Label.Rotated)
		assert.InDelta(t, b.X+10, b.Label.X, 1e-9)
		assert.InDelta(t, b.Y+b.Height/2+2, b.Label.Y, 1e-9)
	})

	t.Run("current never shows a join", func(t *testing.T) {
		assert.False(t, chart.Bars[2].ShowJoin)
		assert.Equal(t, cfg.Colors.Current, chart.Bars[2].Fill)
	})

	t.Run("narrow bar rotates its label", func(t *testing.T) {
		b := chart.Bars[3]
		assert.Less(t, b.Width, 130.0)
		assert.True(t, b.Label.Rotated)
		assert.Equal(t, b.X, b.Label.AnchorX)
		assert.Equal(t, -20.0, b.Label.X)
		assert.Equal(t, -10.0, b.Label.Y)
		assert.Equal(t, cfg.Colors.Other, b.Fill)
	})

	t.Run("open bar runs to the window end", func(t *testing.T) {
		b := chart.Bars[4]
		assert.InDelta(t, chart.PlotWidth, b.X+b.Width, 1e-9)
	})

	t.Run("same name shares a row", func(t *testing.T) {
		assert.Equal(t, chart.Bars[1].Y, chart.Bars[2].Y)
		assert.NotEqual(t, chart.Bars[0].Y, chart.Bars[1].Y)
	})

	t.Run("ticks alternate dashes", func(t *testing.T) {
		require.NotEmpty(t, chart.XTicks)
		assert.Equal(t, "Jan 2022", chart.XTicks[0].Text)
		for i, tk := range chart.XTicks {
			assert.Equal(t, i%2 == 1, tk.Dashed)
		}
	})
}

func TestBuild_BarStartingAtWindowStartHidesJoin(t *testing.T) {
	ivs := []schedule.Interval{
		{Name: "Node 12", Type: schedule.TypeMaintenance, Label: "maintenance", Start: ymd(2020, 11, 30), End: ymd(2022, 4, 30)},
	}
	chart := Build(config.Default(), ivs, testWindow())
	assert.Zero(t, chart.Bars[0].X)
	assert.False(t, chart.Bars[0].ShowJoin)
}

func TestBuild_InvertedIntervalHasZeroWidth(t *testing.T) {
	ivs := []schedule.Interval{
		{Name: "x", Type: schedule.TypeActive, Start: ymd(2022, 6, 1), End: ymd(2022, 3, 1)},
	}
	chart := Build(config.Default(), ivs, testWindow())
	assert.Zero(t, chart.Bars[0].Width)
}

func TestClippedRows(t *testing.T) {
	ivs := []schedule.Interval{
		{Name: "Node 18", Type: schedule.TypeActive, Start: ymd(2022, 1, 1), End: ymd(2022, 2, 1)},
		{Name: "A very long project name that cannot fit 18", Type: schedule.TypeActive, Start: ymd(2022, 1, 1), End: ymd(2022, 2, 1)},
	}
	chart := Build(config.Default(), ivs, testWindow())
	assert.Equal(t, []string{"A very long project name that cannot fit 18"}, chart.ClippedRows(16))
}

func TestSVG(t *testing.T) {
	cfg := config.Default()
	chart := Build(cfg, testIntervals(), testWindow())

	svg := chart.SVG(cfg, SVGOptions{Declaration: true})
	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg" width="1600" height="500">`)
	assert.Contains(t, svg, `<g id="bar-container" transform="translate(160, 30)">`)
	assert.Contains(t, svg, `class="bar unstable"`)
	assert.Contains(t, svg, `class="bar security"`)
	assert.Contains(t, svg, `>Jan 2022</text>`)
	assert.Contains(t, svg, `stroke-dasharray="2,2"`)
	assert.Contains(t, svg, `class="rotated-label rotation"`)
	assert.Contains(t, svg, `rotate(90)`)
	assert.Contains(t, svg, `<text class="label"`)
	assert.Contains(t, svg, `v18.1.0 &lt;sec&gt;`)
	assert.Contains(t, svg, `.current { fill: #5fa04e; }`)
	assert.NotContains(t, svg, "<animate")
	assert.Equal(t, 5, strings.Count(svg, `<rect class="bar `))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))

	animated := chart.SVG(cfg, SVGOptions{Animate: true, Duration: "2s"})
	assert.False(t, strings.HasPrefix(animated, "<?xml"))
	assert.Equal(t, 5, strings.Count(animated, `<animate attributeName="width" from="0"`))
	assert.Contains(t, animated, `dur="2s"`)
}

func TestSVG_Background(t *testing.T) {
	cfg := config.Default()
	chart := Build(cfg, nil, testWindow())
	assert.NotContains(t, chart.SVG(cfg, SVGOptions{}), `<rect width="100%"`)

	cfg.Colors.Background = "#102030"
	assert.Contains(t, chart.SVG(cfg, SVGOptions{}), `<rect width="100%" height="100%" fill="#102030"/>`)
}

func TestSVG_EscapesConfiguredColors(t *testing.T) {
	cfg := config.Default()
	cfg.Colors.Other = `#fff" onload="alert(1)`
	cfg.Colors.Grid = `#eee"><script/>`
	chart := Build(cfg, testIntervals(), testWindow())

	svg := chart.SVG(cfg, SVGOptions{})
	assert.Contains(t, svg, `fill="#fff&quot; onload=&quot;alert(1)"`)
	assert.Contains(t, svg, `stroke="#eee&quot;&gt;&lt;script/&gt;"`)
	assert.NotContains(t, svg, `onload="alert(1)"`)
	assert.NotContains(t, svg, `<script/>`)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, " Node.js Release Schedule", `<svg><g/></svg>`))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Node.js Release Schedule</title>")
	assert.Contains(t, out, "<svg><g/></svg>")
}

func TestRender_WritesRequestedTargets(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Width = 400
	cfg.Layout.Height = 200
	cfg.Chart.Project = "Node.js"
	dir := t.TempDir()

	var logs bytes.Buffer
	r := New(cfg, logger.New(logger.Config{Level: "info", Output: &logs}))

	targets := Targets{
		HTML: filepath.Join(dir, "chart.html"),
		SVG:  filepath.Join(dir, "chart.svg"),
		PNG:  filepath.Join(dir, "chart.png"),
	}
	require.NoError(t, r.Render(testIntervals(), testWindow(), targets))

	html, err := os.ReadFile(targets.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Node.js Release Schedule</title>")
	assert.NotContains(t, string(html), "<?xml")

	svg, err := os.ReadFile(targets.SVG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<?xml")))

	f, err := os.Open(targets.PNG)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	assert.Equal(t, 3, strings.Count(logs.String(), `"message":"output written"`))
}

func TestRender_SkipsEmptyTargets(t *testing.T) {
	dir := t.TempDir()
	target := Targets{SVG: filepath.Join(dir, "only.svg")}
	assert.False(t, target.Empty())
	assert.True(t, Targets{}.Empty())

	require.NoError(t, New(config.Default(), nil).Render(testIntervals(), testWindow(), target))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "only.svg", entries[0].Name())
}

func TestRender_IOError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "chart.svg")
	err := New(config.Default(), nil).Render(testIntervals(), testWindow(), Targets{SVG: missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "svg")
}

func TestWriteFile_ReportsWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	r := New(config.Default(), nil)

	err := r.writeFile("txt", path, func(w io.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), path)
}
