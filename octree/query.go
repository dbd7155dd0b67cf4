package octree

// Result is the outcome of an intersection query. Collisions lists every
// object the query subject intersects, once each, in the order they were
// found.
type Result[T comparable] struct {
	Collided   bool
	Collisions []T
}

type collector[T comparable] struct {
	subject   T
	intersect IntersectTest[T]
	seen      map[T]struct{}
	result    Result[T]
}

func newCollector[T comparable](subject T, intersect IntersectTest[T]) *collector[T] {
	return &collector[T]{
		subject:   subject,
		intersect: intersect,
		seen:      make(map[T]struct{}),
	}
}

func (c *collector[T]) collect(cell *Cell[T]) {
	for _, o := range cell.objects {
		if o == c.subject {
			continue
		}
		if _, ok := c.seen[o]; ok {
			continue
		}

		c.seen[o] = struct{}{}
		if !c.intersect(c.subject, o) {
			continue
		}

		c.result.Collided = true
		c.result.Collisions = append(c.result.Collisions, o)
	}
}

// TestIntersectionInside tests o against the objects sharing a leaf with it.
// The tree structure is not walked, which makes it the cheapest query, but o
// must be indexed: an error of type ErrTypeNotIndexed is returned otherwise.
func (t *Octree[T]) TestIntersectionInside(o T, intersect IntersectTest[T]) (Result[T], error) {
	cells, ok := t.index.lookup(o)
	if !ok {
		return Result[T]{}, notIndexedError("test_intersection_inside", o)
	}

	c := newCollector(o, intersect)
	for _, cell := range cells {
		c.collect(cell)
	}
	return c.result, nil
}

// TestIntersectionOutside walks the tree from the root, skipping the cells
// whose region fails regionTest, and tests o against the objects held by the
// leaves it reaches. o does not need to be indexed. A nil regionTest falls
// back to the one the tree was created with.
func (t *Octree[T]) TestIntersectionOutside(o T, regionTest RegionTest[T], intersect IntersectTest[T]) Result[T] {
	if regionTest == nil {
		regionTest = t.regionTest
	}

	c := newCollector(o, intersect)
	t.Walk(func(cell *Cell[T]) bool {
		if !regionTest(o, cell.region) {
			return false
		}
		if cell.IsLeaf() {
			c.collect(cell)
		}
		return true
	})
	return c.result
}

// TestIntersection uses TestIntersectionInside when o is indexed or when
// regionTest is nil, and TestIntersectionOutside otherwise. Both return the
// same collisions for the same tree.
func (t *Octree[T]) TestIntersection(o T, regionTest RegionTest[T], intersect IntersectTest[T]) (Result[T], error) {
	if regionTest == nil || t.Contains(o) {
		return t.TestIntersectionInside(o, intersect)
	}
	return t.TestIntersectionOutside(o, regionTest, intersect), nil
}

// QueryRegion returns the objects held by the leaves overlapping r. Objects
// are candidates: they share a leaf with r but may not overlap it.
func (t *Octree[T]) QueryRegion(r Region) []T {
	var res []T
	seen := make(map[T]struct{})

	t.Walk(func(cell *Cell[T]) bool {
		if !cell.region.Overlaps(r) {
			return false
		}

		for _, o := range cell.objects {
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			res = append(res, o)
		}
		return true
	})
	return res
}
