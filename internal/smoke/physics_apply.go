package smoke

import (
	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/scenario"
	"drivesim.dev/internal/simclient"
)

// spawnPoint returns one of the suite's fixed spawn slots: a straight lane
// heading +Y, slots spaced so vehicles never overlap.
func spawnPoint(i int) geom.Transform {
	return geom.Transform{
		Location: geom.Vec3{X: 35 - 8*float64(i), Y: -200, Z: 0.3},
		Rotation: geom.Rotation{Yaw: 90},
	}
}

// applyPhysicsSingle verifies that a snapshot pushed to a lone vehicle reads
// back unchanged after stepping: first a vehicle-level field (drag), then
// wheel-level fields (friction, longitudinal stiffness).
func applyPhysicsSingle(r *scenario.Run) error {
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}
	for _, bp := range bps {
		if err := checkSinglePhysicsControl(r, bp); err != nil {
			return err
		}
	}
	return nil
}

func checkSinglePhysicsControl(r *scenario.Run, bp *simclient.Blueprint) error {
	veh, err := spawnVehicle(r, bp, spawnPoint(0))
	if err != nil {
		return err
	}

	roundTrip := func(o physics.Overrides) error {
		pcA, err := changePhysics(veh, o)
		if err != nil {
			return err
		}
		if err := veh.ApplyPhysicsControl(pcA); err != nil {
			return err
		}
		if err := r.Wait(2); err != nil {
			return err
		}
		pcB, err := veh.PhysicsControl()
		if err != nil {
			return err
		}
		if ok, msg := physics.CompareControls(pcA, pcB); !ok {
			return r.Failf("%s: %s", bp.ID, msg)
		}
		return nil
	}

	if err := roundTrip(physics.Overrides{Drag: physics.Float(5)}); err != nil {
		return err
	}
	if err := r.Wait(2); err != nil {
		return err
	}
	if err := roundTrip(physics.Overrides{TireFriction: physics.Float(5), LongStiffness: physics.Float(987)}); err != nil {
		return err
	}

	return veh.Destroy()
}

// applyPhysicsMultiple verifies snapshots stay per-vehicle when many vehicles
// get distinct values in the same tick window: first a fleet of one blueprint,
// then a mixed fleet.
func applyPhysicsMultiple(r *scenario.Run) error {
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}
	for i := range bps {
		if err := checkMultiplePhysicsControl(r, bps, i); err != nil {
			return err
		}
	}
	return checkMultiplePhysicsControl(r, bps, -1)
}

func checkMultiplePhysicsControl(r *scenario.Run, bps []*simclient.Blueprint, fixed int) error {
	const numVeh = 10

	vehicles := make([]*simclient.Actor, 0, numVeh)
	applied := make([]physics.Control, 0, numVeh)
	for i := 0; i < numVeh; i++ {
		bp := bps[i%len(bps)]
		if fixed >= 0 {
			bp = bps[fixed]
		}
		veh, err := spawnVehicle(r, bp, spawnPoint(i))
		if err != nil {
			return err
		}
		vehicles = append(vehicles, veh)

		pc, err := changePhysics(veh, physics.Overrides{Drag: physics.Float(3.0 + 0.1*float64(i))})
		if err != nil {
			return err
		}
		if err := veh.ApplyPhysicsControl(pc); err != nil {
			return err
		}
		applied = append(applied, pc)
	}

	compareAll := func() error {
		for i, veh := range vehicles {
			got, err := veh.PhysicsControl()
			if err != nil {
				return err
			}
			if ok, msg := physics.CompareControls(applied[i], got); !ok {
				return r.Failf("%s: vehicle %d: %s", veh.BlueprintID, i, msg)
			}
		}
		return nil
	}

	if err := r.Wait(2); err != nil {
		return err
	}
	if err := compareAll(); err != nil {
		return err
	}

	for i, veh := range vehicles {
		pc, err := changePhysics(veh, physics.Overrides{
			TireFriction:  physics.Float(1.0 + 0.1*float64(i)),
			LongStiffness: physics.Float(500 + 100*float64(i)),
		})
		if err != nil {
			return err
		}
		if err := veh.ApplyPhysicsControl(pc); err != nil {
			return err
		}
		applied[i] = pc
	}
	if err := r.Wait(2); err != nil {
		return err
	}
	if err := compareAll(); err != nil {
		return err
	}

	for _, veh := range vehicles {
		if err := veh.Destroy(); err != nil {
			return err
		}
	}
	return nil
}
