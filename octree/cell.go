package octree

import "fmt"

const octantCount = 8

// Cell is a node of the tree. A cell either owns exactly eight children or
// none; only cells without children (leaves) hold objects.
type Cell[T comparable] struct {
	region   Region
	depth    int
	parent   *Cell[T]
	children []*Cell[T]
	objects  []T
}

func newCell[T comparable](parent *Cell[T], region Region, depth int) *Cell[T] {
	return &Cell[T]{
		region: region,
		depth:  depth,
		parent: parent,
	}
}

func (c *Cell[T]) IsLeaf() bool {
	return len(c.children) == 0
}

func (c *Cell[T]) Region() Region {
	return c.region
}

// Depth returns the number of splits between the root and the cell.
func (c *Cell[T]) Depth() int {
	return c.depth
}

// Parent returns nil for the root.
func (c *Cell[T]) Parent() *Cell[T] {
	return c.parent
}

func (c *Cell[T]) Children() []*Cell[T] {
	return c.children
}

func (c *Cell[T]) Objects() []T {
	return c.objects
}

// split creates the eight children of a leaf. Objects held by the cell are not
// moved and must be cleared by the caller.
func (c *Cell[T]) split(maxDepth int) {
	if !c.IsLeaf() {
		panic(fmt.Sprintf("octree: split of a non-leaf cell at depth %d", c.depth))
	}
	if c.depth >= maxDepth {
		panic(fmt.Sprintf("octree: split of a cell at depth %d exceeds max depth %d", c.depth, maxDepth))
	}

	c.children = make([]*Cell[T], octantCount)
	for i := range c.children {
		c.children[i] = newCell(c, c.region.Octant(i), c.depth+1)
	}
}

// isEmptyLeaf reports whether the cell holds nothing and has no children.
func (c *Cell[T]) isEmptyLeaf() bool {
	return c.IsLeaf() && len(c.objects) == 0
}

// collapse drops the children of a cell whose children are all empty leaves.
// It returns false and leaves the cell untouched otherwise.
func (c *Cell[T]) collapse() bool {
	if c.IsLeaf() {
		return false
	}

	for _, child := range c.children {
		if !child.isEmptyLeaf() {
			return false
		}
	}

	for _, child := range c.children {
		child.parent = nil
	}
	c.children = nil
	c.objects = nil
	return true
}

// destroy detaches the whole subtree, children before parents.
func (c *Cell[T]) destroy() {
	for _, child := range c.children {
		child.destroy()
		child.parent = nil
	}
	c.children = nil
	c.objects = nil
}

func (c *Cell[T]) addObject(o T) {
	c.objects = append(c.objects, o)
}

func (c *Cell[T]) removeObject(o T) {
	objects := c.objects[:0]
	for _, obj := range c.objects {
		if obj != o {
			objects = append(objects, obj)
		}
	}

	var zero T
	for i := len(objects); i < len(c.objects); i++ {
		c.objects[i] = zero
	}
	c.objects = objects
}

func (c *Cell[T]) holds(o T) bool {
	for _, obj := range c.objects {
		if obj == o {
			return true
		}
	}
	return false
}
