package smoke

import (
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/scenario"
	"drivesim.dev/internal/simclient"
)

// tireLongStiff: with drag removed, a stiffer longitudinal tire transmits
// more engine force, so full throttle over a fixed window must yield strictly
// increasing travel and speed as stiffness grows.
func tireLongStiff(r *scenario.Run, mapName string) error {
	if err := r.World.LoadWorld(mapName); err != nil {
		return err
	}
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}
	for _, bp := range bps {
		if err := checkLongStiff(r, bp); err != nil {
			return err
		}
	}
	return nil
}

func checkLongStiff(r *scenario.Run, bp *simclient.Blueprint) error {
	stiffness := []float64{100, 500, 2000}

	var vehicles []*simclient.Actor
	for i, s := range stiffness {
		veh, err := spawnVehicle(r, bp, spawnPoint(i))
		if err != nil {
			return err
		}
		if err := applyOverrides(veh, physics.Overrides{Drag: physics.Float(0), LongStiffness: physics.Float(s)}); err != nil {
			return err
		}
		vehicles = append(vehicles, veh)
	}

	if err := r.Wait(10); err != nil {
		return err
	}

	start := make([]float64, len(vehicles))
	for i, veh := range vehicles {
		y, err := locationY(veh)
		if err != nil {
			return err
		}
		start[i] = y
	}

	for i := 0; i < 100; i++ {
		for _, veh := range vehicles {
			if err := veh.ApplyControl(simclient.VehicleControl{Throttle: 1.0}); err != nil {
				return err
			}
		}
		if err := r.Wait(1); err != nil {
			return err
		}
	}

	dist := make([]float64, len(vehicles))
	vel := make([]float64, len(vehicles))
	for i, veh := range vehicles {
		y, err := locationY(veh)
		if err != nil {
			return err
		}
		dist[i] = y - start[i]
		if vel[i], err = velocityY(veh); err != nil {
			return err
		}
	}
	r.Record("throttle_window", map[string]float64{
		"dist_s100": dist[0], "dist_s500": dist[1], "dist_s2000": dist[2],
		"vel_s100": vel[0], "vel_s500": vel[1], "vel_s2000": vel[2],
	})

	if !(dist[0] < dist[1] && dist[1] < dist[2]) {
		return r.Failf("%s: travel does not grow with stiffness: %.2fm %.2fm %.2fm", bp.ID, dist[0], dist[1], dist[2])
	}
	if !(vel[0] < vel[1] && vel[1] < vel[2]) {
		return r.Failf("%s: speed does not grow with stiffness: %.3f %.3f %.3f", bp.ID, vel[0], vel[1], vel[2])
	}

	for _, veh := range vehicles {
		if err := veh.Destroy(); err != nil {
			return err
		}
	}
	return nil
}

// wheelSweepCollision: toggling sweep-based wheel collision must not change
// straight-line motion on flat ground. Two identical vehicles, one per mode,
// full throttle side by side.
func wheelSweepCollision(r *scenario.Run, mapName string) error {
	if err := r.World.LoadWorld(mapName); err != nil {
		return err
	}
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}
	bps = fourWheeled(bps)
	for _, bp := range bps {
		if err := checkWheelSweep(r, bp); err != nil {
			return err
		}
	}
	return nil
}

func checkWheelSweep(r *scenario.Run, bp *simclient.Blueprint) error {
	var vehicles []*simclient.Actor
	for i, sweep := range []bool{false, true} {
		veh, err := spawnVehicle(r, bp, spawnPoint(i))
		if err != nil {
			return err
		}
		if err := applyOverrides(veh, physics.Overrides{WheelSweep: physics.Bool(sweep)}); err != nil {
			return err
		}
		vehicles = append(vehicles, veh)
	}

	if err := r.Wait(10); err != nil {
		return err
	}

	for i := 0; i < 200; i++ {
		for _, veh := range vehicles {
			if err := veh.ApplyControl(simclient.VehicleControl{Throttle: 1.0}); err != nil {
				return err
			}
		}
		if err := r.Wait(1); err != nil {
			return err
		}
	}

	vel := make([]float64, len(vehicles))
	loc := make([]float64, len(vehicles))
	for i, veh := range vehicles {
		var err error
		if vel[i], err = velocityY(veh); err != nil {
			return err
		}
		if loc[i], err = locationY(veh); err != nil {
			return err
		}
	}

	if !physics.EqualTol(vel[0], vel[1], 0.1) {
		return r.Failf("%s: sweep collision changes speed: %.3f vs %.3f", bp.ID, vel[0], vel[1])
	}
	if !physics.EqualTol(loc[0], loc[1], 1.0) {
		return r.Failf("%s: sweep collision changes travel: %.2f vs %.2f", bp.ID, loc[0], loc[1])
	}

	for _, veh := range vehicles {
		if err := veh.Destroy(); err != nil {
			return err
		}
	}
	return nil
}
