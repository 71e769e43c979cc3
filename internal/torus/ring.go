package torus

// axis selects which pointer pair of a node a ring operation rewrites.
type axis int

const (
	horizontal axis = iota // left/right
	vertical               // up/down
)

// other returns the orthogonal axis.
func (a axis) other() axis {
	return 1 - a
}

// root is the arena index of the sentinel closing the torus.
const root int32 = 0

// link is one axis pointer pair. prev is left/up, next is right/down.
type link struct {
	prev, next int32
}

// node is an arena slot. The same layout serves the root, both header
// kinds and cells; unused fields stay zero.
type node struct {
	link [2]link

	// Cells: arena indices of the owning row and column headers.
	row, col int32

	// Headers: live member count and construction index.
	count int
	index int

	kind  kind
	alive bool
}

type kind uint8

const (
	kindRoot kind = iota
	kindCol
	kindRow
	kindCell
)

// ring is the non-generic half of a Grid: the node arena and the pointer
// surgery on it.
type ring struct {
	nodes []node
}

// add appends a node linked to itself on both axes (a ring of one).
func (r *ring) add(k kind) int32 {
	id := int32(len(r.nodes))
	r.nodes = append(r.nodes, node{
		link:  [2]link{{id, id}, {id, id}},
		kind:  k,
		alive: true,
	})
	return id
}

// insertBefore splices n immediately before anchor on axis a.
func (r *ring) insertBefore(a axis, anchor, n int32) {
	prev := r.nodes[anchor].link[a].prev
	r.nodes[n].link[a] = link{prev: prev, next: anchor}
	r.nodes[prev].link[a].next = n
	r.nodes[anchor].link[a].prev = n
}

// unsplice removes n from its ring on axis a. n keeps its own pointers so
// a cursor parked on it can still step forward.
func (r *ring) unsplice(a axis, n int32) {
	l := r.nodes[n].link[a]
	r.nodes[l.prev].link[a].next = l.next
	r.nodes[l.next].link[a].prev = l.prev
}

func (r *ring) next(a axis, n int32) int32 {
	return r.nodes[n].link[a].next
}

func (r *ring) prev(a axis, n int32) int32 {
	return r.nodes[n].link[a].prev
}

// advance steps forward from n on axis a, passing over nodes unlinked
// after n was reached. Stale pointers only ever point forward in
// construction order, so the walk ends at a live node or the sentinel.
func (r *ring) advance(a axis, n, sentinel int32) int32 {
	n = r.next(a, n)
	for n != sentinel && !r.nodes[n].alive {
		n = r.next(a, n)
	}
	return n
}

// decrement drops a header count. A negative count means a cascade ran
// out of order.
func (r *ring) decrement(h int32) int {
	r.nodes[h].count--
	if r.nodes[h].count < 0 {
		panic("torus: negative live count on header")
	}
	return r.nodes[h].count
}
