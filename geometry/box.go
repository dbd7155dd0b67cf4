package geometry

import "github.com/aukilabs/hagall-common/messages/dagazpb"

// Box is an axis-aligned bounding box.
type Box struct {
	Low  Vector3
	High Vector3
}

func NewBox(low, high Vector3) Box {
	return Box{Low: low, High: high}
}

// NewBoxFromCenter returns the box centered on c with the given half-extents.
func NewBoxFromCenter(c, extents Vector3) Box {
	return Box{Low: c.Sub(extents), High: c.Add(extents)}
}

func (b Box) Center() Vector3 {
	return b.Low.Midpoint(b.High)
}

// Extents returns the half-extents of the box.
func (b Box) Extents() Vector3 {
	return b.High.Sub(b.Low).Mul(0.5)
}

// Valid reports whether Low is componentwise lower than or equal to High.
func (b Box) Valid() bool {
	return b.Low.LessOrEqual(b.High)
}

func (b Box) ContainsPoint(p Vector3) bool {
	return b.Low.LessOrEqual(p) && p.LessOrEqual(b.High)
}

// Overlaps reports whether both boxes share at least one point. Touching faces
// count as an overlap.
func (b Box) Overlaps(o Box) bool {
	return b.Low.X <= o.High.X && b.High.X >= o.Low.X &&
		b.Low.Y <= o.High.Y && b.High.Y >= o.Low.Y &&
		b.Low.Z <= o.High.Z && b.High.Z >= o.Low.Z
}

// ClosestPoint returns the point of the box that is the closest to p.
func (b Box) ClosestPoint(p Vector3) Vector3 {
	return Clamp(p, b.Low, b.High)
}

func NewBoxFromProtobuf(q *dagazpb.Quad) Box {
	return NewBoxFromCenter(
		NewVector3FromProtobuf(q.GetCenter()),
		NewVector3FromProtobuf(q.GetExtents()),
	)
}

// ToProtobuf returns the box as a center and half-extents quad.
func (b Box) ToProtobuf() *dagazpb.Quad {
	return &dagazpb.Quad{
		Center:  b.Center().ToProtobuf(),
		Extents: b.Extents().ToProtobuf(),
	}
}
