package simclient

import (
	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/protocol"
)

// Actor is a handle to a spawned entity. The simulator owns the authoritative
// state; every accessor is a remote read.
type Actor struct {
	c           *Client
	ID          uint64
	BlueprintID string

	destroyed bool
}

func (a *Actor) params() protocol.ActorParams {
	return protocol.ActorParams{ActorID: a.ID}
}

func (a *Actor) Transform() (geom.Transform, error) {
	var res protocol.TransformResult
	err := a.c.call(protocol.CmdGetTransform, a.params(), &res)
	return res.Transform, err
}

func (a *Actor) Location() (geom.Vec3, error) {
	tf, err := a.Transform()
	return tf.Location, err
}

func (a *Actor) Velocity() (geom.Vec3, error) {
	var res protocol.VelocityResult
	err := a.c.call(protocol.CmdGetVelocity, a.params(), &res)
	return res.Velocity, err
}

// SetTargetVelocity sets the linear velocity directly, bypassing the physics
// response. Used to put vehicles into a known state before measuring.
func (a *Actor) SetTargetVelocity(v geom.Vec3) error {
	return a.c.call(protocol.CmdSetTargetVelocity, protocol.SetTargetVelocityParams{ActorID: a.ID, Velocity: v}, nil)
}

func (a *Actor) SetEnableGravity(enabled bool) error {
	return a.c.call(protocol.CmdSetEnableGravity, protocol.SetEnableGravityParams{ActorID: a.ID, Enabled: enabled}, nil)
}

// ApplyControl sends a driving input. The simulator latches it: the input
// stays in effect on every subsequent tick until replaced.
func (a *Actor) ApplyControl(ctrl VehicleControl) error {
	return a.c.call(protocol.CmdApplyControl, protocol.ApplyControlParams{ActorID: a.ID, Control: ctrl}, nil)
}

// PhysicsControl fetches a disconnected snapshot of the vehicle's tunable
// dynamics parameters.
func (a *Actor) PhysicsControl() (physics.Control, error) {
	var res protocol.PhysicsControlResult
	err := a.c.call(protocol.CmdGetPhysicsControl, a.params(), &res)
	return res.Control, err
}

// ApplyPhysicsControl pushes a snapshot back as a whole unit.
func (a *Actor) ApplyPhysicsControl(ctrl physics.Control) error {
	return a.c.call(protocol.CmdApplyPhysicsControl, protocol.ApplyPhysicsControlParams{ActorID: a.ID, Control: ctrl}, nil)
}

// Destroy removes the actor from the world. Safe to call twice; teardown
// paths may overlap with explicit destroys inside a scenario.
func (a *Actor) Destroy() error {
	if a.destroyed {
		return nil
	}
	if err := a.c.call(protocol.CmdDestroyActor, a.params(), nil); err != nil {
		return err
	}
	a.destroyed = true
	return nil
}
