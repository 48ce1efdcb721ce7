package physics

import "drivesim.dev/internal/geom"

// WheelControl is the tunable parameter set of a single wheel. Position is
// derived by the simulator from the vehicle transform and is not user-tunable.
type WheelControl struct {
	TireFriction   float64   `json:"tire_friction"`
	DampingRate    float64   `json:"damping_rate"`
	MaxSteerAngle  float64   `json:"max_steer_angle"`
	RadiusCM       float64   `json:"radius_cm"`
	MaxBrakeTorque float64   `json:"max_brake_torque"`
	LongStiffness  float64   `json:"long_stiffness"`
	Position       geom.Vec3 `json:"position"`
}

// Control is a vehicle physics snapshot. It is fetched from an actor as a
// disconnected copy; local mutations only reach the simulator when the whole
// snapshot is applied back.
type Control struct {
	MaxRPM                 float64        `json:"max_rpm"`
	MOI                    float64        `json:"moi"`
	DragCoefficient        float64        `json:"drag_coefficient"`
	Mass                   float64        `json:"mass"`
	CenterOfMass           geom.Vec3      `json:"center_of_mass"`
	UseSweepWheelCollision bool           `json:"use_sweep_wheel_collision"`
	Wheels                 []WheelControl `json:"wheels"`
}

// Clone returns a deep copy so wheel mutations never alias the source.
func (c Control) Clone() Control {
	out := c
	out.Wheels = make([]WheelControl, len(c.Wheels))
	copy(out.Wheels, c.Wheels)
	return out
}

// Overrides is the optional set of values the mutation helper pushes onto a
// snapshot. Wheel-level values are applied uniformly to every wheel. Nil
// fields keep whatever the fetched snapshot had.
type Overrides struct {
	TireFriction  *float64
	Drag          *float64
	WheelSweep    *bool
	LongStiffness *float64
}

// Apply returns a mutated deep copy of the snapshot. The caller is
// responsible for pushing the result back to the simulator.
func (o Overrides) Apply(c Control) Control {
	out := c.Clone()
	if o.Drag != nil {
		out.DragCoefficient = *o.Drag
	}
	if o.WheelSweep != nil {
		out.UseSweepWheelCollision = *o.WheelSweep
	}
	for i := range out.Wheels {
		if o.TireFriction != nil {
			out.Wheels[i].TireFriction = *o.TireFriction
		}
		if o.LongStiffness != nil {
			out.Wheels[i].LongStiffness = *o.LongStiffness
		}
	}
	return out
}

// Float and Bool build override pointers inline.
func Float(v float64) *float64 { return &v }
func Bool(v bool) *bool        { return &v }
