package physics

import (
	"strings"
	"testing"

	"drivesim.dev/internal/geom"
)

func sampleControl() Control {
	c := Control{
		MaxRPM:          5000,
		MOI:             1,
		DragCoefficient: 0.3,
		Mass:            1500,
		CenterOfMass:    geom.Vec3{X: 0.2, Y: 0, Z: -0.3},
	}
	for i := 0; i < 4; i++ {
		c.Wheels = append(c.Wheels, WheelControl{
			TireFriction:   3.5,
			DampingRate:    0.25,
			MaxSteerAngle:  70,
			RadiusCM:       35,
			MaxBrakeTorque: 1500,
			LongStiffness:  1000,
			Position:       geom.Vec3{X: float64(i), Y: 0, Z: 0},
		})
	}
	return c
}

func TestEqualTol(t *testing.T) {
	if !EqualTol(1.0, 1.0+1e-6, 1e-5) {
		t.Fatalf("values within tol reported unequal")
	}
	if EqualTol(1.0, 1.0+1e-4, 1e-5) {
		t.Fatalf("values outside tol reported equal")
	}
}

func TestVec3WithinTol_PerAxis(t *testing.T) {
	a := geom.Vec3{X: 1, Y: 2, Z: 3}
	b := geom.Vec3{X: 1, Y: 2 + 2e-5, Z: 3}
	// A single axis outside tol fails even when the magnitude of the
	// difference would pass a norm-based check.
	if Vec3WithinTol(a, b, 1e-5) {
		t.Fatalf("axis delta above tol reported within tol")
	}
	if !Vec3WithinTol(a, b, 1e-4) {
		t.Fatalf("axis delta below tol reported outside tol")
	}
}

func TestAllWithinTol_ComparesAgainstFirst(t *testing.T) {
	if !AllWithinTol([]float64{5}, 1e-5) {
		t.Fatalf("single element list should be trivially equal")
	}
	if !AllWithinTol([]float64{1.0, 1.0 + 5e-6, 1.0 - 5e-6}, 1e-5) {
		t.Fatalf("all elements within tol of first reported unequal")
	}
	if AllWithinTol([]float64{1.0, 1.0, 1.1}, 1e-5) {
		t.Fatalf("element outside tol reported equal")
	}
}

func TestCompareControls_Equal(t *testing.T) {
	a := sampleControl()
	b := a.Clone()
	// Wheel position is simulator-derived and must not participate.
	b.Wheels[2].Position = geom.Vec3{X: 99, Y: 99, Z: 99}
	ok, msg := CompareControls(a, b)
	if !ok {
		t.Fatalf("equal controls reported unequal: %s", msg)
	}
}

func TestCompareControls_FirstMismatchReported(t *testing.T) {
	a := sampleControl()
	b := a.Clone()
	b.DragCoefficient = 5
	b.Wheels[0].TireFriction = 0
	ok, msg := CompareControls(a, b)
	if ok {
		t.Fatalf("mismatching controls reported equal")
	}
	// Short-circuits on the vehicle-level field before reaching wheels.
	if !strings.Contains(msg, "drag_coefficient") {
		t.Fatalf("unexpected diagnostic: %s", msg)
	}
}

func TestCompareControls_WheelField(t *testing.T) {
	a := sampleControl()
	b := a.Clone()
	b.Wheels[3].LongStiffness = 987
	ok, msg := CompareControls(a, b)
	if ok {
		t.Fatalf("wheel mismatch reported equal")
	}
	if !strings.Contains(msg, "wheel 3") || !strings.Contains(msg, "long_stiffness") {
		t.Fatalf("unexpected diagnostic: %s", msg)
	}
}

func TestCompareControls_WheelCountMismatch(t *testing.T) {
	a := sampleControl()
	b := a.Clone()
	b.Wheels = b.Wheels[:2]
	ok, msg := CompareControls(a, b)
	if ok {
		t.Fatalf("wheel count mismatch reported equal")
	}
	if !strings.Contains(msg, "wheel count") {
		t.Fatalf("unexpected diagnostic: %s", msg)
	}
}

func TestOverrides_Apply(t *testing.T) {
	src := sampleControl()
	out := Overrides{
		TireFriction:  Float(0.5),
		Drag:          Float(0),
		LongStiffness: Float(2000),
		WheelSweep:    Bool(true),
	}.Apply(src)

	if src.DragCoefficient != 0.3 || src.Wheels[0].TireFriction != 3.5 {
		t.Fatalf("source snapshot mutated by Apply")
	}
	if out.DragCoefficient != 0 || !out.UseSweepWheelCollision {
		t.Fatalf("vehicle-level overrides not applied: %+v", out)
	}
	for i, w := range out.Wheels {
		if w.TireFriction != 0.5 || w.LongStiffness != 2000 {
			t.Fatalf("wheel %d overrides not applied uniformly: %+v", i, w)
		}
		if w.MaxBrakeTorque != 1500 {
			t.Fatalf("wheel %d untouched field changed: %+v", i, w)
		}
	}

	// Nil overrides leave everything at fetched values.
	same := Overrides{}.Apply(src)
	if ok, msg := CompareControls(src, same); !ok {
		t.Fatalf("empty override changed snapshot: %s", msg)
	}
}
