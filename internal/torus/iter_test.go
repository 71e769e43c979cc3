package torus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextRows(t *testing.T, g *Grid[coord], rc *RowCycle, n int) []int {
	t.Helper()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		r, ok := rc.Next()
		require.True(t, ok)
		require.True(t, g.HeaderLinked(r), "cycle yielded unlinked row %d", r)
		out = append(out, g.Index(r))
	}
	return out
}

func TestRowCycleWraps(t *testing.T) {
	g := build(3, 2)
	rc := g.NewRowCycle()

	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, nextRows(t, g, rc, 7))
}

func TestRowCycleNeverYieldsRoot(t *testing.T) {
	g := build(1, 1)
	rc := g.NewRowCycle()

	for i := 0; i < 5; i++ {
		r, ok := rc.Next()
		require.True(t, ok)
		assert.NotEqual(t, Row(root), r)
		assert.Equal(t, 0, g.Index(r))
	}
}

func TestRowCycleSkipsDeletedRow(t *testing.T) {
	g := build(4, 2)
	rc := g.NewRowCycle()

	assert.Equal(t, []int{0}, nextRows(t, g, rc, 1))

	g.DeleteHeader(rowAt(t, g, 1))
	assert.Equal(t, []int{2, 3, 0, 2}, nextRows(t, g, rc, 4))
}

func TestRowCycleSkipsDeletedCurrentRow(t *testing.T) {
	g := build(4, 1)
	rc := g.NewRowCycle()

	assert.Equal(t, []int{0, 1}, nextRows(t, g, rc, 2))

	// Remove the row the cycle is parked on, and the one after it.
	g.DeleteHeader(rowAt(t, g, 1))
	g.DeleteHeader(rowAt(t, g, 2))
	assert.Equal(t, []int{3, 0, 3}, nextRows(t, g, rc, 3))
}

func TestRowCycleExhausted(t *testing.T) {
	g := build(2, 1)
	rc := g.NewRowCycle()
	nextRows(t, g, rc, 1)

	g.DeleteHeader(rowAt(t, g, 0))
	g.DeleteHeader(rowAt(t, g, 1))

	_, ok := rc.Next()
	assert.False(t, ok)
}

func TestFreshCycleStartsAtTop(t *testing.T) {
	g := build(3, 1)
	rc := g.NewRowCycle()
	assert.Equal(t, []int{0, 1, 2}, nextRows(t, g, rc, 3))

	rc = g.NewRowCycle()
	assert.Equal(t, []int{0}, nextRows(t, g, rc, 1))
}

func TestAllSurvivesHeaderCascadeMidWalk(t *testing.T) {
	g := build(3, 3)

	var seen []coord
	for _, v := range g.All() {
		seen = append(seen, *v)
		// While on the first cell, drop the middle row outright.
		if v.row == 0 && v.col == 0 {
			g.DeleteHeader(rowAt(t, g, 1))
		}
	}

	assert.Len(t, seen, 6)
	for _, v := range seen[1:] {
		assert.NotEqual(t, 1, v.row)
	}
	require.NoError(t, g.Validate())
}
