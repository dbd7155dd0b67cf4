package octree

// locationIndex maps every indexed object to the leaves holding it. It is a
// cache derived from the tree, kept in sync by the Octree.
type locationIndex[T comparable] struct {
	cells map[T][]*Cell[T]
	order []T
}

func newLocationIndex[T comparable]() *locationIndex[T] {
	return &locationIndex[T]{
		cells: make(map[T][]*Cell[T]),
	}
}

// record appends cell to the cells of o. Recording the same pair twice is not
// detected.
func (idx *locationIndex[T]) record(o T, cell *Cell[T]) {
	cells, ok := idx.cells[o]
	if !ok {
		idx.order = append(idx.order, o)
	}
	idx.cells[o] = append(cells, cell)
}

func (idx *locationIndex[T]) lookup(o T) ([]*Cell[T], bool) {
	cells, ok := idx.cells[o]
	return cells, ok
}

func (idx *locationIndex[T]) clear(o T) {
	if _, ok := idx.cells[o]; !ok {
		return
	}
	delete(idx.cells, o)

	for i, obj := range idx.order {
		if obj == o {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
}

func (idx *locationIndex[T]) reset() {
	idx.cells = make(map[T][]*Cell[T])
	idx.order = nil
}

// detach forgets the cells of every object but keeps the objects indexed.
func (idx *locationIndex[T]) detach() {
	for o := range idx.cells {
		idx.cells[o] = nil
	}
}

func (idx *locationIndex[T]) len() int {
	return len(idx.cells)
}

// objects returns the indexed objects in insertion order.
func (idx *locationIndex[T]) objects() []T {
	objects := make([]T, len(idx.order))
	copy(objects, idx.order)
	return objects
}
