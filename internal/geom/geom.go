package geom

import "math"

// Vec3 is a 3-component vector in meters (or m/s for velocities).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Abs returns the component-wise absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Rotation holds Euler angles in degrees.
type Rotation struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Forward returns the unit vector the rotation is facing.
// Roll does not affect the forward axis.
func (r Rotation) Forward() Vec3 {
	cp := math.Cos(r.Pitch * math.Pi / 180)
	sp := math.Sin(r.Pitch * math.Pi / 180)
	cy := math.Cos(r.Yaw * math.Pi / 180)
	sy := math.Sin(r.Yaw * math.Pi / 180)
	return Vec3{cp * cy, cp * sy, sp}
}

// Transform is a spawn/query pose: location plus rotation.
type Transform struct {
	Location Vec3     `json:"location"`
	Rotation Rotation `json:"rotation"`
}
