package octree

import "github.com/aukilabs/octree/geometry"

// Region is the axis-aligned extent of a cell. Center is always the midpoint
// of Low and High.
type Region struct {
	Low    geometry.Vector3
	High   geometry.Vector3
	Center geometry.Vector3
}

func NewRegion(low, high geometry.Vector3) Region {
	return Region{
		Low:    low,
		High:   high,
		Center: low.Midpoint(high),
	}
}

// Valid reports whether Low is componentwise lower than or equal to High.
func (r Region) Valid() bool {
	return r.Low.LessOrEqual(r.High)
}

func (r Region) Box() geometry.Box {
	return geometry.NewBox(r.Low, r.High)
}

func (r Region) Size() geometry.Vector3 {
	return r.High.Sub(r.Low)
}

func (r Region) Contains(p geometry.Vector3) bool {
	return r.Low.LessOrEqual(p) && p.LessOrEqual(r.High)
}

func (r Region) Overlaps(o Region) bool {
	return r.Box().Overlaps(o.Box())
}

// Octant returns the i-th eighth of the region. Bits of i select the half on
// each axis, x being the most significant: 0 is (low, low, low), 1 is
// (low, low, high), 4 is (high, low, low) and 7 is (high, high, high).
func (r Region) Octant(i int) Region {
	low := r.Low
	high := r.Center

	if i&4 != 0 {
		low.X, high.X = r.Center.X, r.High.X
	}
	if i&2 != 0 {
		low.Y, high.Y = r.Center.Y, r.High.Y
	}
	if i&1 != 0 {
		low.Z, high.Z = r.Center.Z, r.High.Z
	}

	return NewRegion(low, high)
}
