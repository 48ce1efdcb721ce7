package simstub

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/protocol"
)

// Kinematics constants. The stub is not a physics engine: it only has to be
// deterministic and to preserve the qualitative relationships the smoke suite
// asserts (sticky control, friction-scaled braking, stiffness-scaled
// acceleration, trigger-volume friction override).
const (
	DefaultTickSeconds = 0.05

	groundZ      = 0.0
	gravityAccel = 9.81

	// Throttle acceleration at reference longitudinal stiffness.
	engineAccel      = 5.0
	refLongStiffness = 2000.0

	// Braking deceleration per unit of effective tire friction.
	brakeDecelPerFriction = 3.0

	// Quadratic drag per unit of drag coefficient.
	dragRef = 0.002

	maxSpeed = 80.0

	// Trigger extent attributes are centimeter half-extents.
	extentScale = 1e-2
)

var knownMaps = []string{"Town03", "Town04", "Town05", "Town05_Opt"}

type Config struct {
	Map         string
	TickSeconds float64
}

type codeError struct {
	code string
	msg  string
}

func (e *codeError) Error() string { return e.msg }
func (e *codeError) Code() string  { return e.code }

func errCode(code, format string, args ...any) error {
	return &codeError{code: code, msg: fmt.Sprintf(format, args...)}
}

type trigger struct {
	friction float64
	center   geom.Vec3
	extent   geom.Vec3 // half-extents, meters
}

func (t *trigger) contains(p geom.Vec3) bool {
	d := p.Sub(t.center).Abs()
	return d.X <= t.extent.X && d.Y <= t.extent.Y && d.Z <= t.extent.Z
}

type actor struct {
	id        uint64
	blueprint string
	vehicle   bool

	tf      geom.Transform
	vel     geom.Vec3
	gravity bool

	// Latched driving input: stays in effect every tick until replaced.
	control protocol.VehicleControl

	// User-applied physics snapshot. Trigger volumes override wheel
	// friction transiently; the applied values are the ones that revert.
	phys physics.Control

	trig *trigger
}

// World is an in-memory stand-in for the remote simulator, stepped one
// discrete tick at a time. All mutations happen under one lock so a session
// sees strictly sequential state.
type World struct {
	mu sync.Mutex

	mapName string
	dt      float64
	tick    uint64
	nextID  uint64
	actors  map[uint64]*actor
}

func New(cfg Config) *World {
	if cfg.Map == "" {
		cfg.Map = "Town05_Opt"
	}
	if cfg.TickSeconds <= 0 {
		cfg.TickSeconds = DefaultTickSeconds
	}
	return &World{
		mapName: cfg.Map,
		dt:      cfg.TickSeconds,
		actors:  map[uint64]*actor{},
	}
}

func (w *World) MapName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mapName
}

func (w *World) TickSeconds() float64 { return w.dt }

func (w *World) CurrentTick() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// LoadWorld swaps the map: every actor is dropped and the clock restarts.
func (w *World) LoadWorld(name string) (uint64, error) {
	known := false
	for _, m := range knownMaps {
		if m == name {
			known = true
			break
		}
	}
	if !known {
		return 0, errCode(protocol.ErrMapNotFound, "unknown map %q", name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mapName = name
	w.actors = map[uint64]*actor{}
	w.tick = 0
	return w.tick, nil
}

func (w *World) Blueprints(pattern string) []protocol.BlueprintDef {
	return matchBlueprints(pattern)
}

func (w *World) Spawn(blueprintID string, attrs map[string]string, tf geom.Transform) (uint64, error) {
	spec := findBlueprint(blueprintID)
	if spec == nil {
		return 0, errCode(protocol.ErrBlueprintNotFound, "unknown blueprint %q", blueprintID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	a := &actor{
		id:        w.nextID,
		blueprint: blueprintID,
		tf:        tf,
	}

	if spec.Defaults != nil {
		a.vehicle = true
		a.gravity = true
		a.phys = spec.Defaults()
	} else {
		trig, err := parseTrigger(spec, attrs, tf.Location)
		if err != nil {
			return 0, err
		}
		a.trig = trig
	}

	w.actors[a.id] = a
	return a.id, nil
}

func parseTrigger(spec *blueprintSpec, attrs map[string]string, center geom.Vec3) (*trigger, error) {
	get := func(name string) (float64, error) {
		s, ok := attrs[name]
		if !ok {
			s = spec.Attributes[name]
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errCode(protocol.ErrSpawnFailed, "attribute %q: %v", name, err)
		}
		return v, nil
	}
	friction, err := get("friction")
	if err != nil {
		return nil, err
	}
	ex, err := get("extent_x")
	if err != nil {
		return nil, err
	}
	ey, err := get("extent_y")
	if err != nil {
		return nil, err
	}
	ez, err := get("extent_z")
	if err != nil {
		return nil, err
	}
	return &trigger{
		friction: friction,
		center:   center,
		extent:   geom.Vec3{X: ex * extentScale, Y: ey * extentScale, Z: ez * extentScale},
	}, nil
}

func (w *World) Destroy(id uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.actors[id]; !ok {
		return errCode(protocol.ErrActorNotFound, "no actor %d", id)
	}
	delete(w.actors, id)
	return nil
}

func (w *World) get(id uint64) (*actor, error) {
	a, ok := w.actors[id]
	if !ok {
		return nil, errCode(protocol.ErrActorNotFound, "no actor %d", id)
	}
	return a, nil
}

func (w *World) vehicle(id uint64) (*actor, error) {
	a, err := w.get(id)
	if err != nil {
		return nil, err
	}
	if !a.vehicle {
		return nil, errCode(protocol.ErrNotAVehicle, "actor %d (%s) is not a vehicle", id, a.blueprint)
	}
	return a, nil
}

func (w *World) Transform(id uint64) (geom.Transform, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.get(id)
	if err != nil {
		return geom.Transform{}, err
	}
	return a.tf, nil
}

func (w *World) Velocity(id uint64) (geom.Vec3, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.get(id)
	if err != nil {
		return geom.Vec3{}, err
	}
	return a.vel, nil
}

func (w *World) SetTargetVelocity(id uint64, v geom.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.vehicle(id)
	if err != nil {
		return err
	}
	a.vel = v
	return nil
}

func (w *World) SetEnableGravity(id uint64, enabled bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.vehicle(id)
	if err != nil {
		return err
	}
	a.gravity = enabled
	return nil
}

func (w *World) ApplyControl(id uint64, ctrl protocol.VehicleControl) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.vehicle(id)
	if err != nil {
		return err
	}
	a.control = ctrl
	return nil
}

// PhysicsControl reports the effective snapshot: wheel friction reflects any
// trigger volume the vehicle currently sits in, and wheel positions are
// derived from the vehicle transform.
func (w *World) PhysicsControl(id uint64) (physics.Control, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.vehicle(id)
	if err != nil {
		return physics.Control{}, err
	}

	out := a.phys.Clone()
	if f, inside := w.frictionOverrideLocked(a); inside {
		for i := range out.Wheels {
			out.Wheels[i].TireFriction = f
		}
	}
	fwd := a.tf.Rotation.Forward()
	right := geom.Vec3{X: -fwd.Y, Y: fwd.X, Z: 0}
	// Wheel order is FL, FR, RL, RR (front pair first on two-wheelers).
	for i := range out.Wheels {
		long := 1.4
		if i >= 2 {
			long = -1.4
		}
		lat := 0.8
		if i%2 == 1 {
			lat = -0.8
		}
		p := a.tf.Location.Add(fwd.Scale(long)).Add(right.Scale(lat))
		p.Z = a.tf.Location.Z + out.Wheels[i].RadiusCM*1e-2
		out.Wheels[i].Position = p
	}
	return out, nil
}

func (w *World) ApplyPhysicsControl(id uint64, c physics.Control) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, err := w.vehicle(id)
	if err != nil {
		return err
	}
	if len(c.Wheels) != len(a.phys.Wheels) {
		return errCode(protocol.ErrBadRequest, "wheel count mismatch: got %d, vehicle has %d", len(c.Wheels), len(a.phys.Wheels))
	}
	a.phys = c.Clone()
	return nil
}

func (w *World) frictionOverrideLocked(a *actor) (float64, bool) {
	for _, other := range w.actors {
		if other.trig != nil && other.trig.contains(a.tf.Location) {
			return other.trig.friction, true
		}
	}
	return 0, false
}

// Tick advances the world exactly one step. Latched controls, drag and
// gravity integrate over the fixed dt; the returned value is the new tick.
func (w *World) Tick() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tick++
	for _, a := range w.actors {
		if a.vehicle {
			w.stepVehicleLocked(a)
		}
	}
	return w.tick
}

func (w *World) stepVehicleLocked(a *actor) {
	dt := w.dt

	if a.control.Throttle > 0 {
		stiff := meanLongStiffness(a.phys)
		factor := stiff / refLongStiffness
		if factor > 1 {
			factor = 1
		}
		acc := a.control.Throttle * engineAccel * factor
		fwd := a.tf.Rotation.Forward()
		a.vel = a.vel.Add(fwd.Scale(acc * dt))
	}

	if a.control.Brake > 0 {
		mu := meanTireFriction(a.phys)
		if f, inside := w.frictionOverrideLocked(a); inside {
			mu = f
		}
		dec := a.control.Brake * brakeDecelPerFriction * mu
		scaleHorizontal(a, func(speed float64) float64 { return speed - dec*dt })
	}

	if a.phys.DragCoefficient > 0 {
		drag := a.phys.DragCoefficient
		scaleHorizontal(a, func(speed float64) float64 { return speed - drag*dragRef*speed*speed*dt })
	}

	scaleHorizontal(a, func(speed float64) float64 {
		if speed > maxSpeed {
			return maxSpeed
		}
		return speed
	})

	if a.gravity {
		if a.tf.Location.Z > groundZ {
			a.vel.Z -= gravityAccel * dt
		} else if a.vel.Z < 0 {
			a.vel.Z = 0
			a.tf.Location.Z = groundZ
		}
	}

	a.tf.Location = a.tf.Location.Add(a.vel.Scale(dt))
	if a.gravity && a.tf.Location.Z < groundZ {
		a.tf.Location.Z = groundZ
		if a.vel.Z < 0 {
			a.vel.Z = 0
		}
	}
}

// scaleHorizontal rescales the horizontal velocity to the adjusted speed,
// clamping at zero so braking and drag never reverse direction.
func scaleHorizontal(a *actor, adjust func(speed float64) float64) {
	speed := math.Hypot(a.vel.X, a.vel.Y)
	if speed <= 0 {
		return
	}
	next := adjust(speed)
	if next < 0 {
		next = 0
	}
	if next == speed {
		return
	}
	s := next / speed
	a.vel.X *= s
	a.vel.Y *= s
}

func meanLongStiffness(c physics.Control) float64 {
	if len(c.Wheels) == 0 {
		return 0
	}
	var sum float64
	for _, w := range c.Wheels {
		sum += w.LongStiffness
	}
	return sum / float64(len(c.Wheels))
}

func meanTireFriction(c physics.Control) float64 {
	if len(c.Wheels) == 0 {
		return 0
	}
	var sum float64
	for _, w := range c.Wheels {
		sum += w.TireFriction
	}
	return sum / float64(len(c.Wheels))
}
