package simclient

import (
	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/protocol"
)

// VehicleControl is re-exported so suite code does not import the wire
// package directly.
type VehicleControl = protocol.VehicleControl

// World is the capability handle for the simulated world.
type World struct {
	c *Client
}

// LoadWorld reloads the named map. Every existing actor handle is invalid
// afterwards.
func (w *World) LoadWorld(name string) error {
	params := protocol.LoadWorldParams{Map: name, ResetSettings: false}
	return w.c.call(protocol.CmdLoadWorld, params, nil)
}

// Tick advances the simulated clock by exactly one tick. It blocks until the
// simulator has applied every queued actor command for that tick; this is the
// ordering guarantee sticky-control equivalence depends on.
func (w *World) Tick() (uint64, error) {
	var res protocol.TickResult
	if err := w.c.call(protocol.CmdTick, nil, &res); err != nil {
		return 0, err
	}
	return res.Tick, nil
}

// Blueprints enumerates spawnable definitions matching the glob-ish pattern
// (e.g. "vehicle.*"); empty pattern returns everything.
func (w *World) Blueprints(pattern string) ([]*Blueprint, error) {
	var res protocol.BlueprintsResult
	if err := w.c.call(protocol.CmdBlueprints, protocol.BlueprintsParams{Pattern: pattern}, &res); err != nil {
		return nil, err
	}
	bps := make([]*Blueprint, 0, len(res.Blueprints))
	for _, def := range res.Blueprints {
		bps = append(bps, newBlueprint(def))
	}
	return bps, nil
}

// SpawnActor creates an actor from the blueprint at the given transform,
// including any locally overridden blueprint attributes.
func (w *World) SpawnActor(bp *Blueprint, tf geom.Transform) (*Actor, error) {
	params := protocol.SpawnActorParams{
		BlueprintID: bp.ID,
		Attributes:  bp.overrides(),
		Transform:   tf,
	}
	var res protocol.SpawnActorResult
	if err := w.c.call(protocol.CmdSpawnActor, params, &res); err != nil {
		return nil, err
	}
	return &Actor{c: w.c, ID: res.ActorID, BlueprintID: bp.ID}, nil
}

// DebugDrawBox asks the simulator to render a wireframe box. Diagnostic only.
func (w *World) DebugDrawBox(center, extent geom.Vec3, rot geom.Rotation, color [3]int, lifeTime, thickness float64) error {
	params := protocol.DebugDrawParams{
		Shape:     "box",
		Center:    center,
		Extent:    extent,
		Rotation:  rot,
		Color:     color,
		LifeTime:  lifeTime,
		Thickness: thickness,
	}
	return w.c.call(protocol.CmdDebugDraw, params, nil)
}
