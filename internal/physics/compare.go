package physics

import (
	"fmt"
	"math"

	"drivesim.dev/internal/geom"
)

// DefaultTol is the tolerance for raw measurements (velocities, distances).
// ControlTol is the looser tolerance for physics-control roundtrips, which
// pass through the simulator's own parameter clamping.
const (
	DefaultTol = 1e-5
	ControlTol = 1e-3
)

// EqualTol reports whether two scalars differ by less than tol.
func EqualTol(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// Vec3WithinTol compares component-wise, per axis, not by magnitude.
func Vec3WithinTol(a, b geom.Vec3, tol float64) bool {
	d := a.Sub(b).Abs()
	return d.X < tol && d.Y < tol && d.Z < tol
}

// AllWithinTol reports whether every element is within tol of the first one.
// Lists shorter than two elements are trivially equal.
func AllWithinTol(vals []float64, tol float64) bool {
	for i := 1; i < len(vals); i++ {
		if !EqualTol(vals[0], vals[i], tol) {
			return false
		}
	}
	return true
}

// Explicit field lists instead of reflective attribute walks: nothing is
// compared that is not named here. Wheels are excluded from the control scan
// and compared per index; wheel Position is excluded entirely.
var controlScalarFields = []struct {
	name string
	get  func(Control) float64
}{
	{"max_rpm", func(c Control) float64 { return c.MaxRPM }},
	{"moi", func(c Control) float64 { return c.MOI }},
	{"drag_coefficient", func(c Control) float64 { return c.DragCoefficient }},
	{"mass", func(c Control) float64 { return c.Mass }},
}

var wheelScalarFields = []struct {
	name string
	get  func(WheelControl) float64
}{
	{"tire_friction", func(w WheelControl) float64 { return w.TireFriction }},
	{"damping_rate", func(w WheelControl) float64 { return w.DampingRate }},
	{"max_steer_angle", func(w WheelControl) float64 { return w.MaxSteerAngle }},
	{"radius_cm", func(w WheelControl) float64 { return w.RadiusCM }},
	{"max_brake_torque", func(w WheelControl) float64 { return w.MaxBrakeTorque }},
	{"long_stiffness", func(w WheelControl) float64 { return w.LongStiffness }},
}

// CompareControls checks two snapshots field by field within ControlTol and
// stops at the first mismatch, returning a message naming the field and both
// values. A wheel-count mismatch is its own failure, reported before any
// wheel field is inspected.
func CompareControls(a, b Control) (bool, string) {
	for _, f := range controlScalarFields {
		va, vb := f.get(a), f.get(b)
		if !EqualTol(va, vb, ControlTol) {
			return false, fmt.Sprintf("control field %q does not match: %.4f %.4f", f.name, va, vb)
		}
	}
	if !Vec3WithinTol(a.CenterOfMass, b.CenterOfMass, ControlTol) {
		return false, fmt.Sprintf("control field %q does not match: %v %v", "center_of_mass", a.CenterOfMass, b.CenterOfMass)
	}
	if a.UseSweepWheelCollision != b.UseSweepWheelCollision {
		return false, fmt.Sprintf("control field %q does not match: %t %t", "use_sweep_wheel_collision", a.UseSweepWheelCollision, b.UseSweepWheelCollision)
	}

	if len(a.Wheels) != len(b.Wheels) {
		return false, fmt.Sprintf("wheel count does not match: %d %d", len(a.Wheels), len(b.Wheels))
	}
	for i := range a.Wheels {
		for _, f := range wheelScalarFields {
			va, vb := f.get(a.Wheels[i]), f.get(b.Wheels[i])
			if !EqualTol(va, vb, ControlTol) {
				return false, fmt.Sprintf("wheel %d field %q does not match: %.4f %.4f", i, f.name, va, vb)
			}
		}
	}
	return true, ""
}
