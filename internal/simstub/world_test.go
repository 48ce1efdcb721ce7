package simstub

import (
	"math"
	"testing"

	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/protocol"
)

func spawnVehicle(t *testing.T, w *World, tf geom.Transform) uint64 {
	t.Helper()
	id, err := w.Spawn("vehicle.sedan.base", nil, tf)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	return id
}

func TestTick_LatchedControlPersists(t *testing.T) {
	w := New(Config{})
	id := spawnVehicle(t, w, geom.Transform{})

	c, err := w.PhysicsControl(id)
	if err != nil {
		t.Fatalf("get physics: %v", err)
	}
	if err := w.ApplyPhysicsControl(id, physics.Overrides{Drag: physics.Float(0)}.Apply(c)); err != nil {
		t.Fatalf("apply physics: %v", err)
	}

	if err := w.ApplyControl(id, protocol.VehicleControl{Throttle: 1}); err != nil {
		t.Fatalf("apply control: %v", err)
	}
	for i := 0; i < 10; i++ {
		w.Tick()
	}

	// Default stiffness 1000 against reference 2000 halves engine accel.
	want := 10 * 0.5 * engineAccel * w.TickSeconds()
	v, err := w.Velocity(id)
	if err != nil {
		t.Fatalf("velocity: %v", err)
	}
	if math.Abs(v.X-want) > 1e-9 {
		t.Fatalf("latched throttle: got vx=%f want %f", v.X, want)
	}
}

func TestTick_BrakeScalesWithFriction(t *testing.T) {
	w := New(Config{})
	slick := spawnVehicle(t, w, geom.Transform{})
	grippy := spawnVehicle(t, w, geom.Transform{Location: geom.Vec3{X: 10}})

	setFriction := func(id uint64, friction float64) {
		t.Helper()
		c, err := w.PhysicsControl(id)
		if err != nil {
			t.Fatalf("get physics: %v", err)
		}
		c = physics.Overrides{TireFriction: physics.Float(friction), Drag: physics.Float(0)}.Apply(c)
		if err := w.ApplyPhysicsControl(id, c); err != nil {
			t.Fatalf("apply physics: %v", err)
		}
	}
	setFriction(slick, 0)
	setFriction(grippy, 3)

	for _, id := range []uint64{slick, grippy} {
		if err := w.SetTargetVelocity(id, geom.Vec3{Y: 20}); err != nil {
			t.Fatalf("set velocity: %v", err)
		}
		if err := w.ApplyControl(id, protocol.VehicleControl{Brake: 1}); err != nil {
			t.Fatalf("apply control: %v", err)
		}
	}
	for i := 0; i < 20; i++ {
		w.Tick()
	}

	vSlick, _ := w.Velocity(slick)
	vGrippy, _ := w.Velocity(grippy)
	if vSlick.Y != 20 {
		t.Fatalf("zero friction braking should not decelerate: %f", vSlick.Y)
	}
	if vGrippy.Y >= vSlick.Y {
		t.Fatalf("friction 3 should brake harder: slick=%f grippy=%f", vSlick.Y, vGrippy.Y)
	}
}

func TestTrigger_FrictionOverrideAndRevert(t *testing.T) {
	w := New(Config{})
	id := spawnVehicle(t, w, geom.Transform{Location: geom.Vec3{X: 5, Y: 5}})

	c, _ := w.PhysicsControl(id)
	c = physics.Overrides{TireFriction: physics.Float(1)}.Apply(c)
	if err := w.ApplyPhysicsControl(id, c); err != nil {
		t.Fatalf("apply physics: %v", err)
	}

	read := func() float64 {
		t.Helper()
		c, err := w.PhysicsControl(id)
		if err != nil {
			t.Fatalf("get physics: %v", err)
		}
		return c.Wheels[0].TireFriction
	}
	if got := read(); got != 1 {
		t.Fatalf("applied friction: got %f want 1", got)
	}

	// Extent attributes are centimeter half-extents: 300cm = 3m box around
	// the vehicle.
	trig, err := w.Spawn(TriggerFrictionID, map[string]string{
		"friction": "2.5",
		"extent_x": "300", "extent_y": "300", "extent_z": "300",
	}, geom.Transform{Location: geom.Vec3{X: 5, Y: 5}})
	if err != nil {
		t.Fatalf("spawn trigger: %v", err)
	}
	if got := read(); got != 2.5 {
		t.Fatalf("inside trigger: got %f want 2.5", got)
	}

	if err := w.Destroy(trig); err != nil {
		t.Fatalf("destroy trigger: %v", err)
	}
	if got := read(); got != 1 {
		t.Fatalf("after trigger: got %f want 1 (applied value must revert)", got)
	}
}

func TestTick_GravitySettlesToGround(t *testing.T) {
	w := New(Config{})
	falling := spawnVehicle(t, w, geom.Transform{Location: geom.Vec3{Z: 1}})
	floating := spawnVehicle(t, w, geom.Transform{Location: geom.Vec3{X: 10, Z: 1}})
	if err := w.SetEnableGravity(floating, false); err != nil {
		t.Fatalf("disable gravity: %v", err)
	}

	for i := 0; i < 50; i++ {
		w.Tick()
	}

	tfFalling, _ := w.Transform(falling)
	vFalling, _ := w.Velocity(falling)
	if tfFalling.Location.Z != 0 || vFalling.Z != 0 {
		t.Fatalf("vehicle did not settle: z=%f vz=%f", tfFalling.Location.Z, vFalling.Z)
	}
	tfFloating, _ := w.Transform(floating)
	if tfFloating.Location.Z != 1 {
		t.Fatalf("gravity-disabled vehicle moved: z=%f", tfFloating.Location.Z)
	}
}

func TestLoadWorld_DropsActorsAndResetsClock(t *testing.T) {
	w := New(Config{})
	id := spawnVehicle(t, w, geom.Transform{})
	w.Tick()

	if _, err := w.LoadWorld("nowhere"); err == nil {
		t.Fatalf("unknown map accepted")
	}
	tick, err := w.LoadWorld("Town05_Opt")
	if err != nil {
		t.Fatalf("load world: %v", err)
	}
	if tick != 0 {
		t.Fatalf("clock not reset: %d", tick)
	}
	if _, err := w.Transform(id); err == nil {
		t.Fatalf("actor survived map reload")
	}
}

func TestBlueprints_PatternFilter(t *testing.T) {
	w := New(Config{})
	vehicles := w.Blueprints("vehicle.*")
	if len(vehicles) == 0 {
		t.Fatalf("no vehicle blueprints")
	}
	for _, bp := range vehicles {
		if bp.Attributes["number_of_wheels"] == "" {
			t.Fatalf("vehicle blueprint %s missing wheel count", bp.ID)
		}
	}
	all := w.Blueprints("")
	if len(all) <= len(vehicles) {
		t.Fatalf("empty pattern should include the trigger blueprint")
	}
}
