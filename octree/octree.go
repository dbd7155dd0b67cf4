// Package octree implements a dynamic octree that places caller-owned objects
// into axis-aligned cells and answers intersection queries between them.
//
// The tree does not know anything about the shape of the objects it holds.
// Placement is decided by a RegionTest given at creation, and intersections
// by an IntersectTest given per query. An Octree is not safe for concurrent
// use: callers mutating it from several goroutines must serialize their
// batches of operations.
package octree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/octree/geometry"
)

// RegionTest reports whether an object overlaps a region. It must be pure and
// must not mutate the tree it is called from.
type RegionTest[T comparable] func(object T, r Region) bool

// IntersectTest reports whether two objects intersect. It must be pure and
// must not mutate the tree it is called from.
type IntersectTest[T comparable] func(object, other T) bool

type Octree[T comparable] struct {
	root       *Cell[T]
	index      *locationIndex[T]
	maxDepth   int
	regionTest RegionTest[T]
}

// New creates an octree covering the [low, high] box. A maxDepth of 0 means
// the root never splits.
func New[T comparable](low, high geometry.Vector3, maxDepth int, regionTest RegionTest[T]) (*Octree[T], error) {
	region := NewRegion(low, high)
	if err := validateRegion(region); err != nil {
		return nil, err
	}

	if maxDepth < 0 {
		return nil, errors.New("max depth is negative").
			WithType(ErrTypeInvalidMaxDepth).
			WithTag("max_depth", maxDepth)
	}

	if regionTest == nil {
		return nil, errors.New("region test is nil").
			WithType(ErrTypeMissingPredicate)
	}

	return &Octree[T]{
		root:       newCell[T](nil, region, 0),
		index:      newLocationIndex[T](),
		maxDepth:   maxDepth,
		regionTest: regionTest,
	}, nil
}

func (t *Octree[T]) Root() *Cell[T] {
	return t.root
}

func (t *Octree[T]) MaxDepth() int {
	return t.maxDepth
}

// Len returns the number of indexed objects.
func (t *Octree[T]) Len() int {
	return t.index.len()
}

func (t *Octree[T]) Contains(o T) bool {
	_, ok := t.index.lookup(o)
	return ok
}

// CellsOf returns the leaves holding o, in the order they were filled.
func (t *Octree[T]) CellsOf(o T) []*Cell[T] {
	cells, _ := t.index.lookup(o)
	res := make([]*Cell[T], len(cells))
	copy(res, cells)
	return res
}

// Insert pushes o down to every max depth leaf whose region it overlaps,
// splitting leaves on the way. A leaf split for o that ends up holding nothing
// is collapsed back, so a region test accepting a cell but none of its
// octants does not grow the tree. It returns false when o is already indexed
// or when it does not overlap the tree.
func (t *Octree[T]) Insert(o T) bool {
	if t.Contains(o) {
		return false
	}

	t.insert(o, t.root)
	return t.Contains(o)
}

func (t *Octree[T]) insert(o T, c *Cell[T]) {
	if !t.regionTest(o, c.region) {
		return
	}

	split := false
	if c.IsLeaf() {
		if c.depth == t.maxDepth {
			c.addObject(o)
			t.index.record(o, c)
			return
		}

		c.split(t.maxDepth)
		c.objects = nil
		split = true
	}

	for _, child := range c.children {
		t.insert(o, child)
	}

	// A region test accepting a cell but none of its octants leaves an empty
	// subtree behind.
	if split {
		c.collapse()
	}
}

// Remove erases o from every leaf holding it and collapses the subtrees that
// became empty. An object that is not indexed is reported with an error of
// type ErrTypeNotIndexed.
func (t *Octree[T]) Remove(o T) error {
	cells, ok := t.index.lookup(o)
	if !ok {
		return notIndexedError("remove", o)
	}

	for _, c := range cells {
		c.removeObject(o)
		t.collapse(c.parent)
	}

	t.index.clear(o)
	return nil
}

// collapse climbs from c toward the root, collapsing every cell whose
// children are all empty leaves. It stops at the first cell that still holds
// structure or data.
func (t *Octree[T]) collapse(c *Cell[T]) {
	for c != nil && c.collapse() {
		c = c.parent
	}
}

// Update re-inserts o. It must be called whenever o changes in a way that
// alters the result of the region test.
func (t *Octree[T]) Update(o T) error {
	if !t.Contains(o) {
		return notIndexedError("update", o)
	}

	if err := t.Remove(o); err != nil {
		return err
	}
	t.insert(o, t.root)
	return nil
}

// Clear removes every object and every cell but the root, which keeps its
// region.
func (t *Octree[T]) Clear() {
	t.root.destroy()
	t.index.reset()
}

// ResetWithBounds rebuilds the tree over the [low, high] box and re-inserts
// every indexed object in the order they were first inserted. Objects stay
// indexed even when they do not overlap the new bounds: they are held by no
// cell until a later reset brings them back in, or until they are removed.
func (t *Octree[T]) ResetWithBounds(low, high geometry.Vector3) error {
	region := NewRegion(low, high)
	if err := validateRegion(region); err != nil {
		return err
	}

	objects := t.index.objects()
	t.root.destroy()
	t.index.detach()
	t.root.region = region

	for _, o := range objects {
		t.insert(o, t.root)
	}
	return nil
}

// Walk visits the cells in pre-order, children in octant order. Children of a
// cell are skipped when fn returns false.
func (t *Octree[T]) Walk(fn func(c *Cell[T]) bool) {
	walk(t.root, fn)
}

func walk[T comparable](c *Cell[T], fn func(c *Cell[T]) bool) {
	if !fn(c) {
		return
	}

	for _, child := range c.children {
		walk(child, fn)
	}
}

// Stats describes the shape of a tree.
type Stats struct {
	Cells      int `json:"cells"`
	Leaves     int `json:"leaves"`
	Depth      int `json:"depth"`
	MaxDepth   int `json:"max_depth"`
	Objects    int `json:"objects"`
	References int `json:"references"`
}

func (t *Octree[T]) Stats() Stats {
	stats := Stats{
		MaxDepth: t.maxDepth,
		Objects:  t.index.len(),
	}

	t.Walk(func(c *Cell[T]) bool {
		stats.Cells++
		stats.Depth = max(stats.Depth, c.depth)

		if c.IsLeaf() {
			stats.Leaves++
			stats.References += len(c.objects)
		}
		return true
	})
	return stats
}
