package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"

	"schedule2svg/internal/config"
	"schedule2svg/internal/logger"
	"schedule2svg/internal/schedule"
)

// Targets names the files to write. An empty path skips that format.
type Targets struct {
	HTML string
	SVG  string
	PNG  string
}

// Empty reports whether no output was requested.
func (t Targets) Empty() bool {
	return t.HTML == "" && t.SVG == "" && t.PNG == ""
}

// Renderer turns derived intervals into chart files.
type Renderer struct {
	cfg config.Config
	log *logger.Logger
}

// New creates a Renderer. A nil logger discards diagnostics.
func New(cfg config.Config, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{cfg: cfg, log: log.Component("render")}
}

// Render lays out intervals for window w and writes every requested target.
// It stops at the first failed write.
func (r *Renderer) Render(intervals []schedule.Interval, w schedule.Window, targets Targets) error {
	chart := Build(r.cfg, intervals, w)
	r.log.Debug().
		Int("bars", len(chart.Bars)).
		Int("rows", len(chart.Rows)).
		Int("ticks", len(chart.XTicks)).
		Msg("chart laid out")

	if clipped := chart.ClippedRows(r.cfg.Font.TickSize); len(clipped) > 0 {
		r.log.Warn().Strs("rows", clipped).Int("margin_left", r.cfg.Layout.MarginLeft).Msg("row names may not fit the left margin")
	}

	opts := SVGOptions{Animate: r.cfg.Chart.Animate, Duration: r.cfg.Chart.AnimationDuration}

	if targets.HTML != "" {
		svg := chart.SVG(r.cfg, opts)
		title := r.cfg.Chart.Project + " Release Schedule"
		if err := r.writeFile("html", targets.HTML, func(w io.Writer) error {
			return WriteHTML(w, title, svg)
		}); err != nil {
			return err
		}
	}

	if targets.SVG != "" {
		opts.Declaration = true
		svg := chart.SVG(r.cfg, opts)
		if err := r.writeFile("svg", targets.SVG, func(w io.Writer) error {
			_, err := io.WriteString(w, svg)
			return err
		}); err != nil {
			return err
		}
	}

	if targets.PNG != "" {
		if err := r.writeFile("png", targets.PNG, func(w io.Writer) error {
			return chart.WritePNG(w, r.cfg)
		}); err != nil {
			return err
		}
	}

	return nil
}

// countingWriter tracks bytes written for logging.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// writeFile creates path, hands a buffered writer to write and closes the
// file, reporting write, flush and close failures together.
func (r *Renderer) writeFile(format, path string, write func(io.Writer) error) (err error) {
	started := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s file: %w", format, err)
	}
	defer func() {
		multierr.AppendInto(&err, f.Close())
		if err != nil {
			err = fmt.Errorf("error writing %s file %s: %w", format, path, err)
		}
	}()

	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	r.log.LogOutputWritten(format, path, cw.n, time.Since(started))
	return nil
}
