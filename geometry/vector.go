package geometry

import (
	"math"

	"github.com/aukilabs/hagall-common/messages/dagazpb"
)

func EqualWithEpsilon(a float32, b float32, epsilon float64) bool {
	return math.Abs((float64)(a-b)) <= epsilon
}

type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func NewVector3(x, y, z float32) Vector3 {
	return Vector3{x, y, z}
}

func (v1 Vector3) EqualWithEpsilon(v2 Vector3, epsilon float64) bool {
	return EqualWithEpsilon(v1.X, v2.X, epsilon) &&
		EqualWithEpsilon(v1.Y, v2.Y, epsilon) &&
		EqualWithEpsilon(v1.Z, v2.Z, epsilon)
}

// LessOrEqual reports whether every component of v1 is lower than or equal to
// the matching component of v2.
func (v1 Vector3) LessOrEqual(v2 Vector3) bool {
	return v1.X <= v2.X && v1.Y <= v2.Y && v1.Z <= v2.Z
}

func (v1 Vector3) Add(v2 Vector3) Vector3 {
	return Vector3{v1.X + v2.X, v1.Y + v2.Y, v1.Z + v2.Z}
}

func (v1 Vector3) Sub(v2 Vector3) Vector3 {
	return Vector3{v1.X - v2.X, v1.Y - v2.Y, v1.Z - v2.Z}
}

func (v1 Vector3) Mul(s float32) Vector3 {
	return Vector3{v1.X * s, v1.Y * s, v1.Z * s}
}

func (v1 Vector3) Dot(v2 Vector3) float32 {
	return v1.X*v2.X + v1.Y*v2.Y + v1.Z*v2.Z
}

func (v1 Vector3) Cross(v2 Vector3) Vector3 {
	return Vector3{
		v1.Y*v2.Z - v1.Z*v2.Y,
		v1.Z*v2.X - v1.X*v2.Z,
		v1.X*v2.Y - v1.Y*v2.X,
	}
}

func (v1 Vector3) LengthSquared() float32 {
	return v1.Dot(v1)
}

func (v1 Vector3) Length() float64 {
	return math.Sqrt((float64)(v1.LengthSquared()))
}

func (v1 Vector3) Normalized() Vector3 {
	length := (float32)(v1.Length())
	if length == 0 {
		return v1
	}
	return Vector3{v1.X / length, v1.Y / length, v1.Z / length}
}

// Midpoint returns the point halfway between v1 and v2.
func (v1 Vector3) Midpoint(v2 Vector3) Vector3 {
	return Vector3{
		(v1.X + v2.X) / 2,
		(v1.Y + v2.Y) / 2,
		(v1.Z + v2.Z) / 2,
	}
}

func Min(a, b Vector3) Vector3 {
	return Vector3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

func Max(a, b Vector3) Vector3 {
	return Vector3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

// Clamp returns v with each component clamped into [low, high].
func Clamp(v, low, high Vector3) Vector3 {
	return Min(Max(v, low), high)
}

func NewVector3FromProtobuf(point *dagazpb.Point) Vector3 {
	if point == nil {
		return Vector3{}
	}

	return Vector3{
		X: point.X,
		Y: point.Y,
		Z: point.Z,
	}
}

func (v1 Vector3) ToProtobuf() *dagazpb.Point {
	return &dagazpb.Point{
		X: v1.X,
		Y: v1.Y,
		Z: v1.Z,
	}
}
