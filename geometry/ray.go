package geometry

import "math"

type Ray struct {
	Start     Vector3
	Direction Vector3
}

func NewRay(start, direction Vector3) Ray {
	return Ray{Start: start, Direction: direction}
}

// PointAt returns the point at distance t along the ray. The distance is
// expressed in direction units.
func (r Ray) PointAt(t float32) Vector3 {
	return r.Start.Add(r.Direction.Mul(t))
}

// DistToPoint returns the distance between p and the line carrying the ray.
// Direction must be normalized.
func (r Ray) DistToPoint(p Vector3) float64 {
	return p.Sub(r.Start).Cross(p.Sub(r.Start).Sub(r.Direction)).Length()
}

// IntersectsBox is the slab test. Only the forward half of the ray is
// considered.
func (r Ray) IntersectsBox(b Box) bool {
	tMin := float32(0)
	tMax := float32(math.Inf(1))

	start := [3]float32{r.Start.X, r.Start.Y, r.Start.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	low := [3]float32{b.Low.X, b.Low.Y, b.Low.Z}
	high := [3]float32{b.High.X, b.High.Y, b.High.Z}

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if start[i] < low[i] || start[i] > high[i] {
				return false
			}
			continue
		}

		t1 := (low[i] - start[i]) / dir[i]
		t2 := (high[i] - start[i]) / dir[i]
		tMin = max(tMin, min(t1, t2))
		tMax = min(tMax, max(t1, t2))
	}

	return tMax >= tMin
}

func (r Ray) IntersectsSphere(s Sphere) bool {
	toCenter := s.Center.Sub(r.Start)
	radiusSq := s.Radius * s.Radius

	// Sphere behind the ray start.
	if toCenter.Dot(r.Direction) < 0 {
		return toCenter.LengthSquared() <= radiusSq
	}

	lengthSq := r.Direction.LengthSquared()
	if lengthSq == 0 {
		return toCenter.LengthSquared() <= radiusSq
	}

	projected := r.Direction.Mul(toCenter.Dot(r.Direction) / lengthSq)
	return toCenter.Sub(projected).LengthSquared() <= radiusSq
}

type Plane struct {
	Point  Vector3
	Normal Vector3
}

func NewPlane(point, normal Vector3) Plane {
	return Plane{Point: point, Normal: normal}
}

// DistToPoint returns a positive distance when p is on the side the normal
// points to and a negative one otherwise. Normal must be normalized.
func (p Plane) DistToPoint(pnt Vector3) float32 {
	return p.Normal.Dot(pnt.Sub(p.Point))
}
