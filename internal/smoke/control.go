package smoke

import (
	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/scenario"
	"drivesim.dev/internal/simclient"
)

// stickyControl: a control applied once must keep acting until replaced, so a
// single apply and a per-tick re-apply of the same control produce identical
// motion. Checked for throttle from rest and for braking from speed.
func stickyControl(r *scenario.Run, mapName string) error {
	if err := r.World.LoadWorld(mapName); err != nil {
		return err
	}
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}

	for _, bp := range bps {
		throttle := simclient.VehicleControl{Throttle: 1.0}
		brake := simclient.VehicleControl{Brake: 1.0}

		distA, velA, err := driveScenario(r, bp, throttle, 0, false)
		if err != nil {
			return err
		}
		distB, velB, err := driveScenario(r, bp, throttle, 0, true)
		if err != nil {
			return err
		}
		if !physics.EqualTol(distA, distB, 1e-5) || !physics.EqualTol(velA, velB, 1e-5) {
			return r.Failf("%s: one-shot and continuous throttle diverge: dist %.6f vs %.6f, vel %.6f vs %.6f",
				bp.ID, distA, distB, velA, velB)
		}

		distA, velA, err = driveScenario(r, bp, brake, 27, false)
		if err != nil {
			return err
		}
		distB, velB, err = driveScenario(r, bp, brake, 27, true)
		if err != nil {
			return err
		}
		if !physics.EqualTol(distA, distB, 1e-5) || !physics.EqualTol(velA, velB, 1e-5) {
			return r.Failf("%s: one-shot and continuous brake diverge: dist %.6f vs %.6f, vel %.6f vs %.6f",
				bp.ID, distA, distB, velA, velB)
		}
	}
	return nil
}

// driveScenario runs one spawn-drive-measure pass: warm up, optionally launch
// at initSpeed along the vehicle's forward axis, apply the control either once
// or every tick, and report travel distance and final speed.
func driveScenario(r *scenario.Run, bp *simclient.Blueprint, ctrl simclient.VehicleControl, initSpeed float64, continuous bool) (dist, vel float64, err error) {
	tf := geom.Transform{
		Location: geom.Vec3{X: 235, Y: -1, Z: 0.2},
		Rotation: geom.Rotation{Yaw: 90},
	}
	veh, err := spawnVehicle(r, bp, tf)
	if err != nil {
		return 0, 0, err
	}

	if err := r.Wait(10); err != nil {
		return 0, 0, err
	}

	if initSpeed != 0 {
		fwd := tf.Rotation.Forward()
		if err := veh.SetTargetVelocity(fwd.Scale(initSpeed)); err != nil {
			return 0, 0, err
		}
	}

	begin, err := veh.Location()
	if err != nil {
		return 0, 0, err
	}

	for i := 0; i < 150; i++ {
		if i == 0 || continuous {
			if err := veh.ApplyControl(ctrl); err != nil {
				return 0, 0, err
			}
		}
		if err := r.Wait(1); err != nil {
			return 0, 0, err
		}
	}

	end, err := veh.Location()
	if err != nil {
		return 0, 0, err
	}
	v, err := veh.Velocity()
	if err != nil {
		return 0, 0, err
	}

	if err := veh.Destroy(); err != nil {
		return 0, 0, err
	}
	return end.Sub(begin).Length(), v.Length(), nil
}
