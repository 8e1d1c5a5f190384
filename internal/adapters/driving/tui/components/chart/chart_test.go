package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

func pts(start int64, values ...int64) []domain.Point {
	out := make([]domain.Point, len(values))
	for i, v := range values {
		out[i] = domain.Point{Position: start + int64(i), Value: v}
	}
	return out
}

func TestColumns_AlignsOnPosition(t *testing.T) {
	snap := domain.Snapshot{
		Series:   [][]domain.Point{pts(0, 1, 2, 3, 4), pts(2, 7, 8)},
		Position: 4,
		Policy:   domain.PositionWindow(4),
	}

	rows, indices := Columns(snap, 4)

	require.Len(t, rows, 2)
	assert.Equal(t, []int{0, 1}, indices)
	assert.Equal(t, []float64{1, 2, 3, 4}, rows[0])
	// Series 1 starts at position 2, its first value is held before that.
	assert.Equal(t, []float64{7, 7, 7, 8}, rows[1])
}

func TestColumns_ClipsToWindow(t *testing.T) {
	snap := domain.Snapshot{
		Series:   [][]domain.Point{pts(0, 1, 2, 3, 4, 5)},
		Position: 5,
	}

	rows, _ := Columns(snap, 3)

	assert.Equal(t, [][]float64{{3, 4, 5}}, rows)
}

func TestColumns_HoldsThroughGaps(t *testing.T) {
	snap := domain.Snapshot{
		Series: [][]domain.Point{{
			{Position: 0, Value: 5},
			{Position: 3, Value: 9},
		}},
		Position: 5,
	}

	rows, _ := Columns(snap, 5)

	assert.Equal(t, [][]float64{{5, 5, 5, 9, 9}}, rows)
}

func TestColumns_SkipsEmptySeries(t *testing.T) {
	snap := domain.Snapshot{
		Series:   [][]domain.Point{nil, pts(0, 1), {{Position: -10, Value: 3}}},
		Position: 1,
	}

	rows, indices := Columns(snap, 2)

	assert.Equal(t, []int{1}, indices)
	assert.Equal(t, [][]float64{{1, 1}}, rows)
}

func TestColumns_NoSpan(t *testing.T) {
	rows, indices := Columns(domain.Snapshot{Series: [][]domain.Point{pts(0, 1)}, Position: 1}, 0)

	assert.Nil(t, rows)
	assert.Nil(t, indices)
}

func TestBounds(t *testing.T) {
	lo, hi, ok := Bounds([][]float64{{3, -2}, {10, 4}})
	require.True(t, ok)
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 10.0, hi)

	_, _, ok = Bounds(nil)
	assert.False(t, ok)
}

func TestChart_ViewPlaceholder(t *testing.T) {
	c := New(nil, 40, 8)

	view := c.View(domain.Snapshot{Series: [][]domain.Point{nil}, Policy: domain.PositionWindow(30)})

	assert.Contains(t, view, "Waiting for data")
}

func TestChart_ViewDrawsLabels(t *testing.T) {
	c := New(nil, 60, 10)
	snap := domain.Snapshot{
		Series:   [][]domain.Point{pts(0, -50, 0, 50, 100), pts(0, 1, 2, 3, 4)},
		Position: 4,
		Policy:   domain.PositionWindow(4),
	}

	view := c.View(snap)

	assert.NotContains(t, view, "Waiting for data")
	assert.Contains(t, view, "100")
	assert.Contains(t, view, "-50")
}

func TestChart_SetSizeClamps(t *testing.T) {
	c := New(nil, 1, 1)

	w, h := c.Size()
	assert.Equal(t, MinWidth, w)
	assert.Equal(t, MinHeight, h)
}

func TestChart_Legend(t *testing.T) {
	c := New(nil, 40, 8)
	snap := domain.Snapshot{Series: [][]domain.Point{pts(0, 1, 2), nil}}

	legend := c.Legend(snap)

	assert.Contains(t, legend, "s0")
	assert.Contains(t, legend, "2")
	assert.Contains(t, legend, "s1")
	assert.True(t, strings.Contains(legend, "-"))
}

func TestLegendColor_Wraps(t *testing.T) {
	assert.Equal(t, LegendColor(0), LegendColor(len(legendColors)))
}
