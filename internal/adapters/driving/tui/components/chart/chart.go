// Package chart renders every series of a snapshot as one braille line plot.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/serplot/internal/core/domain"
)

// Minimum canvas size in cells.
const (
	MinWidth  = 10
	MinHeight = 3
)

// lineColors and legendColors are parallel: series i is drawn with
// lineColors[i%n] and labelled with legendColors[i%n].
var (
	lineColors = []plot.Color{
		plot.Red, plot.Green, plot.Blue, plot.Yellow,
		plot.Cyan, plot.Magenta, plot.Orange, plot.LightGray,
	}
	legendColors = []lipgloss.Color{
		"#F38BA8", "#A6E3A1", "#89B4FA", "#F9E2AF",
		"#94E2D5", "#CBA6F7", "#FAB387", "#BAC2DE",
	}
)

// LegendColor returns the label colour of series i.
func LegendColor(i int) lipgloss.Color {
	return legendColors[i%len(legendColors)]
}

// Columns lays the snapshot out on a shared x axis of span columns ending at
// the newest position. Column c holds position (snap.Position - span + c).
//
// Only series with at least one point inside the window are returned, with
// their original indices. Before a series' first point the column repeats
// that first value, and gaps hold the previous value, so every row has
// exactly span entries.
func Columns(snap domain.Snapshot, span int) (rows [][]float64, indices []int) {
	if span <= 0 {
		return nil, nil
	}
	first := snap.Position - int64(span)

	for i, pts := range snap.Series {
		row := make([]float64, span)
		filled := make([]bool, span)
		seen := false
		for _, p := range pts {
			c := p.Position - first
			if c < 0 || c >= int64(span) {
				continue
			}
			row[c] = float64(p.Value)
			filled[c] = true
			seen = true
		}
		if !seen {
			continue
		}

		lead := 0
		for !filled[lead] {
			lead++
		}
		for c := 0; c < lead; c++ {
			row[c] = row[lead]
		}
		for c := lead + 1; c < span; c++ {
			if !filled[c] {
				row[c] = row[c-1]
			}
		}

		rows = append(rows, row)
		indices = append(indices, i)
	}
	return rows, indices
}

// Bounds returns the smallest and largest value in rows.
func Bounds(rows [][]float64) (lo, hi float64, ok bool) {
	for _, row := range rows {
		for _, v := range row {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi, ok
}

// Chart draws snapshots on a braille canvas.
type Chart struct {
	styles *styles.Styles
	width  int
	height int
}

// New creates a chart of the given size in terminal cells.
func New(s *styles.Styles, width, height int) *Chart {
	if s == nil {
		s = styles.DefaultStyles()
	}
	c := &Chart{styles: s}
	c.SetSize(width, height)
	return c
}

// SetSize resizes the chart.
func (c *Chart) SetSize(width, height int) {
	c.width = max(width, MinWidth)
	c.height = max(height, MinHeight)
}

// Size returns the chart size in cells.
func (c *Chart) Size() (int, int) {
	return c.width, c.height
}

// View renders snap. The y range label is drawn in a gutter on the left.
func (c *Chart) View(snap domain.Snapshot) string {
	rows, indices := Columns(snap, snap.Policy.Span())
	lo, hi, ok := Bounds(rows)
	if !ok {
		return c.placeholder()
	}

	top := strconv.FormatFloat(hi, 'f', -1, 64)
	bottom := strconv.FormatFloat(lo, 'f', -1, 64)
	gutter := max(len(top), len(bottom)) + 1

	plotWidth := max(c.width-gutter, MinWidth)
	canvas := plot.NewCanvas(plotWidth, c.height)
	canvas.NumDataPoints = len(rows[0])
	canvas.ShowAxis = false
	canvas.LineColors = make([]plot.Color, len(rows))
	for i, idx := range indices {
		canvas.LineColors[i] = lineColors[idx%len(lineColors)]
	}
	canvas.Fill(rows)

	lines := strings.Split(strings.TrimRight(canvas.String(), "\n"), "\n")
	labels := make([]string, len(lines))
	for i := range labels {
		switch i {
		case 0:
			labels[i] = fmt.Sprintf("%*s ", gutter-1, top)
		case len(lines) - 1:
			labels[i] = fmt.Sprintf("%*s ", gutter-1, bottom)
		default:
			labels[i] = strings.Repeat(" ", gutter)
		}
		labels[i] = c.styles.Muted.Render(labels[i])
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(labels, "\n"),
		strings.Join(lines, "\n"),
	)
}

func (c *Chart) placeholder() string {
	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center,
		c.styles.Muted.Render("Waiting for data..."))
}

// Legend renders one entry per series: its index and newest value.
func (c *Chart) Legend(snap domain.Snapshot) string {
	entries := make([]string, 0, snap.Len())
	for i := range snap.Series {
		value := "-"
		if v, ok := snap.Latest(i); ok {
			value = strconv.FormatInt(v, 10)
		}
		swatch := lipgloss.NewStyle().Foreground(LegendColor(i)).Render("━━")
		entries = append(entries, fmt.Sprintf("%s s%d %s", swatch, i, c.styles.Normal.Render(value)))
	}
	return strings.Join(entries, "   ")
}
