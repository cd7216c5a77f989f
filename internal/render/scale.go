package render

import (
	"math"
	"time"
)

// TimeScale maps times in [Start, End] linearly onto [0, Width]. Times outside
// the domain are clamped to the range ends.
type TimeScale struct {
	Start time.Time
	End   time.Time
	Width float64
}

// X returns the horizontal position of t.
func (s TimeScale) X(t time.Time) float64 {
	span := s.End.Sub(s.Start)
	if span <= 0 {
		return 0
	}
	p := float64(t.Sub(s.Start)) / float64(span)
	return math.Max(0, math.Min(1, p)) * s.Width
}

// monthSteps are the tick spacings tried, finest first.
var monthSteps = []int{1, 2, 3, 6, 12, 24, 60, 120}

// Ticks returns month-aligned tick times inside the domain, using the finest
// step from monthSteps that yields at most max ticks.
func (s TimeScale) Ticks(max int) []time.Time {
	var ticks []time.Time
	for _, step := range monthSteps {
		ticks = monthTicks(s.Start, s.End, step)
		if len(ticks) <= max {
			return ticks
		}
	}
	return ticks
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func monthTicks(start, end time.Time, step int) []time.Time {
	start, end = start.UTC(), end.UTC()
	t := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if t.Before(start) {
		t = t.AddDate(0, 1, 0)
	}
	for monthIndex(t)%step != 0 {
		t = t.AddDate(0, 1, 0)
	}

	var ticks []time.Time
	for !t.After(end) {
		ticks = append(ticks, t)
		t = t.AddDate(0, step, 0)
	}
	return ticks
}

// BandScale divides [0, Height] into equal rows, one per distinct name, in
// the order names were first added. Padding is the fraction of a step left
// empty between rows and at both ends; rows are centred.
type BandScale struct {
	names     []string
	index     map[string]int
	height    float64
	padding   float64
	step      float64
	offset    float64
	bandwidth float64
}

// NewBandScale builds a band scale over the distinct values of names.
func NewBandScale(names []string, height, padding float64) *BandScale {
	b := &BandScale{
		index:   make(map[string]int, len(names)),
		height:  height,
		padding: padding,
	}
	for _, n := range names {
		if _, ok := b.index[n]; ok {
			continue
		}
		b.index[n] = len(b.names)
		b.names = append(b.names, n)
	}

	n := float64(len(b.names))
	if n == 0 {
		return b
	}
	b.step = height / math.Max(1, n-padding+2*padding)
	b.offset = (height - b.step*(n-padding)) / 2
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Names returns the domain in row order.
func (b *BandScale) Names() []string {
	return b.names
}

// Y returns the top of the row for name, and false for unknown names.
func (b *BandScale) Y(name string) (float64, bool) {
	i, ok := b.index[name]
	if !ok {
		return 0, false
	}
	return b.offset + b.step*float64(i), true
}

// Bandwidth is the height of one bar.
func (b *BandScale) Bandwidth() float64 {
	return b.bandwidth
}
