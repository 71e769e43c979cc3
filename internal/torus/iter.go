package torus

import "iter"

// Cursor walks the member ring of one header. It is finite: it starts at
// the sentinel's neighbour and stops when it comes back around.
//
// The cursor reads the following node before handing out the current one,
// so deleting the cell just returned by Next (and any header cascade that
// follows from it) does not disturb the walk.
type Cursor struct {
	r        *ring
	axis     axis
	sentinel int32
	next     int32
}

// Members returns a fresh cursor over the cells of h.
func (g *Grid[T]) Members(h Header) *Cursor {
	g.mustHeader(h)
	a := h.members()
	return &Cursor{
		r:        &g.ring,
		axis:     a,
		sentinel: h.id(),
		next:     g.advance(a, h.id(), h.id()),
	}
}

// HasNext reports whether Next would return a cell.
func (c *Cursor) HasNext() bool {
	if c.next != c.sentinel && !c.r.nodes[c.next].alive {
		c.next = c.r.advance(c.axis, c.next, c.sentinel)
	}
	return c.next != c.sentinel
}

// Next returns the next member.
func (c *Cursor) Next() (Cell, bool) {
	// The node read ahead may have been unlinked by a cascade since.
	if c.next != c.sentinel && !c.r.nodes[c.next].alive {
		c.next = c.r.advance(c.axis, c.next, c.sentinel)
	}
	if c.next == c.sentinel {
		return 0, false
	}
	cur := c.next
	c.next = c.r.advance(c.axis, cur, c.sentinel)
	return Cell(cur), true
}

// Cells yields the members of h with their payloads.
func (g *Grid[T]) Cells(h Header) iter.Seq2[Cell, *T] {
	return func(yield func(Cell, *T) bool) {
		cur := g.Members(h)
		for {
			c, ok := cur.Next()
			if !ok {
				return
			}
			if !yield(c, &g.payload[c]) {
				return
			}
		}
	}
}

// All yields every linked cell, column by column from the left, each column
// from the top.
func (g *Grid[T]) All() iter.Seq2[Cell, *T] {
	return func(yield func(Cell, *T) bool) {
		col := g.advance(horizontal, root, root)
		for col != root {
			nextCol := g.advance(horizontal, col, root)
			for c, v := range g.Cells(Col(col)) {
				if !yield(c, v) {
					return
				}
			}
			col = nextCol
			if col != root && !g.nodes[col].alive {
				col = g.advance(horizontal, col, root)
			}
		}
	}
}

// Rows yields the live row headers top to bottom.
func (g *Grid[T]) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for n := g.advance(vertical, root, root); n != root; {
			next := g.advance(vertical, n, root)
			if !yield(Row(n)) {
				return
			}
			n = next
			if n != root && !g.nodes[n].alive {
				n = g.advance(vertical, n, root)
			}
		}
	}
}

// Cols yields the live column headers left to right.
func (g *Grid[T]) Cols() iter.Seq[Col] {
	return func(yield func(Col) bool) {
		for n := g.advance(horizontal, root, root); n != root; {
			next := g.advance(horizontal, n, root)
			if !yield(Col(n)) {
				return
			}
			n = next
			if n != root && !g.nodes[n].alive {
				n = g.advance(horizontal, n, root)
			}
		}
	}
}

// RowCycle hands out live rows top to bottom, wrapping around forever. It
// walks the physical ring, so rows deleted between calls are skipped
// without any bookkeeping on the caller's side.
type RowCycle struct {
	r   *ring
	cur int32
}

// NewRowCycle returns a cycle parked on the root; the first Next yields the
// top live row.
func (g *Grid[T]) NewRowCycle() *RowCycle {
	return &RowCycle{r: &g.ring, cur: root}
}

// Next advances to the following live row. It reports false only when no
// rows are left.
func (rc *RowCycle) Next() (Row, bool) {
	n := rc.r.advance(vertical, rc.cur, root)
	if n == root {
		n = rc.r.advance(vertical, root, root)
		if n == root {
			rc.cur = root
			return 0, false
		}
	}
	rc.cur = n
	return Row(n), true
}
