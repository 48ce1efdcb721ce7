// Package smoke holds the end-to-end scenario battery run against a live
// simulator. Scenarios treat the simulator as a black box: spawn, configure,
// step, measure, assert, teardown.
package smoke

import (
	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/scenario"
	"drivesim.dev/internal/simclient"
)

// kmh converts the suite's reference speeds to m/s.
func kmh(v float64) float64 { return v / 3.6 }

// changePhysics fetches the vehicle's current snapshot and returns it with
// the overrides applied, without pushing it back.
func changePhysics(a *simclient.Actor, o physics.Overrides) (physics.Control, error) {
	pc, err := a.PhysicsControl()
	if err != nil {
		return physics.Control{}, err
	}
	return o.Apply(pc), nil
}

// applyOverrides is the fetch-mutate-apply convenience used when the caller
// does not need the intermediate snapshot.
func applyOverrides(a *simclient.Actor, o physics.Overrides) error {
	pc, err := changePhysics(a, o)
	if err != nil {
		return err
	}
	return a.ApplyPhysicsControl(pc)
}

// spawnVehicle spawns and registers teardown in one step. Scenarios may also
// destroy explicitly earlier; Destroy is idempotent.
func spawnVehicle(r *scenario.Run, bp *simclient.Blueprint, tf geom.Transform) (*simclient.Actor, error) {
	veh, err := r.World.SpawnActor(bp, tf)
	if err != nil {
		return nil, err
	}
	r.DestroyOnExit(veh)
	return veh, nil
}

// fourWheeled filters the blueprint list on the number_of_wheels attribute.
func fourWheeled(bps []*simclient.Blueprint) []*simclient.Blueprint {
	var out []*simclient.Blueprint
	for _, bp := range bps {
		if bp.Attribute("number_of_wheels") == "4" {
			out = append(out, bp)
		}
	}
	return out
}

// velocityY reads the travel-axis velocity component. The suite's straights
// all run along +Y (yaw 90).
func velocityY(a *simclient.Actor) (float64, error) {
	v, err := a.Velocity()
	return v.Y, err
}

func locationY(a *simclient.Actor) (float64, error) {
	loc, err := a.Location()
	return loc.Y, err
}

// tireFriction reads the front-left wheel friction from a fresh snapshot.
func tireFriction(a *simclient.Actor) (float64, error) {
	pc, err := a.PhysicsControl()
	if err != nil {
		return 0, err
	}
	return pc.Wheels[0].TireFriction, nil
}
