package geometry

type Sphere struct {
	Center Vector3
	Radius float32
}

func NewSphere(center Vector3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Bounds returns the smallest box enclosing the sphere.
func (s Sphere) Bounds() Box {
	r := Vector3{s.Radius, s.Radius, s.Radius}
	return NewBoxFromCenter(s.Center, r)
}

// OverlapsBox uses the distance between the sphere center and the closest
// point of the box, so spheres sitting near a box corner are not reported.
func (s Sphere) OverlapsBox(b Box) bool {
	d := b.ClosestPoint(s.Center).Sub(s.Center)
	return d.LengthSquared() <= s.Radius*s.Radius
}

func (s Sphere) OverlapsSphere(o Sphere) bool {
	r := s.Radius + o.Radius
	return o.Center.Sub(s.Center).LengthSquared() <= r*r
}

func (s Sphere) ContainsPoint(p Vector3) bool {
	return p.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
}
