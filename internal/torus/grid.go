// Package torus implements a toroidal sparse grid: cells laid out in rows
// and columns, each linked into a circular row ring and a circular column
// ring, with sentinel headers that keep live counts.
//
// Removing a cell is O(1) and keeps both header counts current. Removing a
// header cascades: its remaining members are unlinked from the orthogonal
// rings. There is no restore; a removed node stays removed.
//
// The grid carries an opaque payload per cell. It never deletes headers on
// its own; the driver inspects the counts returned by DeleteCell and calls
// DeleteHeader when it wants a row or column gone.
//
// Handles (Cell, Row, Col) are indices into the grid's arena and are only
// meaningful for the grid that issued them. Passing an unlinked handle to
// DeleteCell or DeleteHeader is a programming error and panics.
package torus

import (
	"errors"
	"fmt"
)

// Cell identifies one grid entry.
type Cell int32

// Row identifies a row header.
type Row int32

// Col identifies a column header.
type Col int32

// Header is a Row or a Col.
type Header interface {
	id() int32
	members() axis
}

func (r Row) id() int32     { return int32(r) }
func (r Row) members() axis { return horizontal }
func (c Col) id() int32     { return int32(c) }
func (c Col) members() axis { return vertical }

// Grid is a torus of cells carrying payloads of type T.
type Grid[T any] struct {
	ring
	payload []T
	rows    int
	cols    int
}

// Build creates a rows x cols grid. Columns are linked left to right into
// the root's horizontal ring, rows top to bottom into its vertical ring, and
// factory is called once per cell in row-major order.
func Build[T any](rows, cols int, factory func(row, col int) T) *Grid[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("torus: invalid dimensions %dx%d", rows, cols))
	}

	total := 1 + rows + cols + rows*cols
	g := &Grid[T]{
		ring:    ring{nodes: make([]node, 0, total)},
		payload: make([]T, total),
		rows:    rows,
		cols:    cols,
	}
	g.add(kindRoot)

	colIDs := make([]int32, cols)
	for c := 0; c < cols; c++ {
		id := g.add(kindCol)
		g.nodes[id].index = c
		g.insertBefore(horizontal, root, id)
		colIDs[c] = id
	}

	for r := 0; r < rows; r++ {
		rowID := g.add(kindRow)
		g.nodes[rowID].index = r
		g.insertBefore(vertical, root, rowID)

		for c := 0; c < cols; c++ {
			id := g.add(kindCell)
			g.payload[id] = factory(r, c)
			g.append(rowID, horizontal, id)
			g.append(colIDs[c], vertical, id)
			g.nodes[id].row = rowID
			g.nodes[id].col = colIDs[c]
		}
	}
	return g
}

// append links cell at the end of header h's member ring.
func (g *Grid[T]) append(h int32, a axis, cell int32) {
	g.insertBefore(a, h, cell)
	g.nodes[h].count++
}

// Dims returns the dimensions the grid was built with.
func (g *Grid[T]) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// Value returns a pointer to the payload of c. The pointer stays valid for
// the lifetime of the grid, including after c is deleted.
func (g *Grid[T]) Value(c Cell) *T {
	g.mustKind(int32(c), kindCell)
	return &g.payload[c]
}

// RowOf returns the row header c belongs to.
func (g *Grid[T]) RowOf(c Cell) Row {
	g.mustKind(int32(c), kindCell)
	return Row(g.nodes[c].row)
}

// ColOf returns the column header c belongs to.
func (g *Grid[T]) ColOf(c Cell) Col {
	g.mustKind(int32(c), kindCell)
	return Col(g.nodes[c].col)
}

// Linked reports whether c is still part of the grid.
func (g *Grid[T]) Linked(c Cell) bool {
	return g.isKind(int32(c), kindCell) && g.nodes[c].alive
}

// HeaderLinked reports whether h is still linked into the root.
func (g *Grid[T]) HeaderLinked(h Header) bool {
	return g.isHeader(h) && g.nodes[h.id()].alive
}

// Count returns the number of cells currently linked into h.
func (g *Grid[T]) Count(h Header) int {
	g.mustHeader(h)
	return g.nodes[h.id()].count
}

// Index returns the construction index of h: the row number for a Row, the
// column number for a Col.
func (g *Grid[T]) Index(h Header) int {
	g.mustHeader(h)
	return g.nodes[h.id()].index
}

// FirstRow returns the top live row.
func (g *Grid[T]) FirstRow() (Row, bool) {
	n := g.next(vertical, root)
	return Row(n), n != root
}

// LastRow returns the bottom live row.
func (g *Grid[T]) LastRow() (Row, bool) {
	n := g.prev(vertical, root)
	return Row(n), n != root
}

// FirstCol returns the leftmost live column.
func (g *Grid[T]) FirstCol() (Col, bool) {
	n := g.next(horizontal, root)
	return Col(n), n != root
}

// LastCol returns the rightmost live column.
func (g *Grid[T]) LastCol() (Col, bool) {
	n := g.prev(horizontal, root)
	return Col(n), n != root
}

// First returns the first member of h: the leftmost cell of a row or the
// top cell of a column.
func (g *Grid[T]) First(h Header) (Cell, bool) {
	g.mustHeader(h)
	n := g.next(h.members(), h.id())
	return Cell(n), n != h.id()
}

// Last returns the last member of h: the rightmost cell of a row or the
// bottom cell of a column.
func (g *Grid[T]) Last(h Header) (Cell, bool) {
	g.mustHeader(h)
	n := g.prev(h.members(), h.id())
	return Cell(n), n != h.id()
}

// Live returns the number of linked cells, summed over the row headers.
// Zero means the grid is exhausted.
func (g *Grid[T]) Live() int {
	total := 0
	for n := g.next(vertical, root); n != root; n = g.next(vertical, n) {
		total += g.nodes[n].count
	}
	return total
}

// DeleteCell unlinks c from its row and column and returns the counts left
// on both. Both counts are final when DeleteCell returns, so the caller may
// decide on header removal straight away.
func (g *Grid[T]) DeleteCell(c Cell) (rowCount, colCount int) {
	id := int32(c)
	g.mustKind(id, kindCell)
	if !g.nodes[id].alive {
		panic(fmt.Sprintf("torus: delete of unlinked cell %d", id))
	}

	g.unsplice(horizontal, id)
	g.unsplice(vertical, id)
	g.nodes[id].alive = false

	rowCount = g.decrement(g.nodes[id].row)
	colCount = g.decrement(g.nodes[id].col)
	return rowCount, colCount
}

// DeleteHeader removes h from the root. Any members still linked into h are
// unlinked from the orthogonal axis and counted off their other header;
// they stay threaded on h's own ring, which is no longer reachable.
func (g *Grid[T]) DeleteHeader(h Header) {
	g.mustHeader(h)
	id := h.id()
	if !g.nodes[id].alive {
		panic(fmt.Sprintf("torus: delete of unlinked header %d", id))
	}

	own := h.members()
	cross := own.other()
	for n := g.next(own, id); n != id; n = g.next(own, n) {
		g.unsplice(cross, n)
		g.nodes[n].alive = false
		if cross == horizontal {
			g.decrement(g.nodes[n].row)
		} else {
			g.decrement(g.nodes[n].col)
		}
	}

	// A header sits in the root ring on the axis orthogonal to its members.
	g.unsplice(cross, id)
	g.nodes[id].alive = false
}

// Validate walks every live ring and checks the link and count invariants.
// It returns the first violation found.
func (g *Grid[T]) Validate() error {
	for id := range g.nodes {
		n := int32(id)
		if !g.nodes[n].alive {
			continue
		}
		for _, a := range [...]axis{horizontal, vertical} {
			if g.prev(a, g.next(a, n)) != n || g.next(a, g.prev(a, n)) != n {
				return fmt.Errorf("%w: node %d axis %d", ErrBrokenRing, n, a)
			}
		}
	}

	rowTotal, err := g.validateHeaders(vertical, kindRow)
	if err != nil {
		return err
	}
	colTotal, err := g.validateHeaders(horizontal, kindCol)
	if err != nil {
		return err
	}
	if rowTotal != colTotal {
		return fmt.Errorf("%w: rows hold %d cells, columns hold %d", ErrCountMismatch, rowTotal, colTotal)
	}
	return nil
}

// ErrBrokenRing reports a node whose neighbours do not point back at it.
var ErrBrokenRing = errors.New("torus: ring invariant violated")

// ErrCountMismatch reports a header whose count disagrees with its ring.
var ErrCountMismatch = errors.New("torus: live count mismatch")

// validateHeaders checks every header on the root ring along a, returning
// the sum of their counts.
func (g *Grid[T]) validateHeaders(a axis, k kind) (int, error) {
	total := 0
	members := a.other()
	for h := g.next(a, root); h != root; h = g.next(a, h) {
		if g.nodes[h].kind != k || !g.nodes[h].alive {
			return 0, fmt.Errorf("%w: unexpected node %d on root ring", ErrBrokenRing, h)
		}
		seen := 0
		for n := g.next(members, h); n != h; n = g.next(members, n) {
			cell := g.nodes[n]
			if !cell.alive || cell.kind != kindCell {
				return 0, fmt.Errorf("%w: dead node %d in header %d", ErrBrokenRing, n, h)
			}
			owner := cell.row
			if k == kindCol {
				owner = cell.col
			}
			if owner != h {
				return 0, fmt.Errorf("%w: cell %d linked under foreign header %d", ErrBrokenRing, n, h)
			}
			seen++
		}
		if seen != g.nodes[h].count {
			return 0, fmt.Errorf("%w: header %d counts %d, ring holds %d", ErrCountMismatch, h, g.nodes[h].count, seen)
		}
		total += seen
	}
	return total, nil
}

func (g *Grid[T]) isKind(id int32, k kind) bool {
	return id >= 0 && int(id) < len(g.nodes) && g.nodes[id].kind == k
}

func (g *Grid[T]) mustKind(id int32, k kind) {
	if !g.isKind(id, k) {
		panic(fmt.Sprintf("torus: handle %d is not a %s", id, k))
	}
}

func (g *Grid[T]) isHeader(h Header) bool {
	if h == nil {
		return false
	}
	switch h.(type) {
	case Row:
		return g.isKind(h.id(), kindRow)
	case Col:
		return g.isKind(h.id(), kindCol)
	}
	return false
}

func (g *Grid[T]) mustHeader(h Header) {
	if !g.isHeader(h) {
		panic(fmt.Sprintf("torus: invalid header handle %v", h))
	}
}

func (k kind) String() string {
	switch k {
	case kindRoot:
		return "root"
	case kindCol:
		return "column"
	case kindRow:
		return "row"
	case kindCell:
		return "cell"
	}
	return "unknown"
}
