package smoke

import (
	"fmt"
	"strconv"

	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/scenario"
	"drivesim.dev/internal/simclient"
)

// vehicleZeroFriction: three identical vehicles with zero friction and zero
// drag given the same target velocity must stay in lockstep, including one
// floating with gravity disabled.
func vehicleZeroFriction(r *scenario.Run, mapName string) error {
	if err := r.World.LoadWorld(mapName); err != nil {
		return err
	}
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}

	for _, bp := range bps {
		if err := checkZeroFriction(r, bp); err != nil {
			return err
		}
	}
	return nil
}

func checkZeroFriction(r *scenario.Run, bp *simclient.Blueprint) error {
	tf := geom.Transform{
		Location: geom.Vec3{X: 35, Y: -200, Z: 0.5},
		Rotation: geom.Rotation{Yaw: 90},
	}

	var vehicles []*simclient.Actor
	spawnOne := func(gravity bool) error {
		veh, err := spawnVehicle(r, bp, tf)
		if err != nil {
			return err
		}
		if err := veh.SetTargetVelocity(geom.Vec3{}); err != nil {
			return err
		}
		if err := veh.SetEnableGravity(gravity); err != nil {
			return err
		}
		vehicles = append(vehicles, veh)
		return nil
	}

	if err := spawnOne(true); err != nil {
		return err
	}
	tf.Location.X -= 4
	if err := spawnOne(true); err != nil {
		return err
	}
	tf.Location.X -= 4
	tf.Location.Z += 0.5
	if err := spawnOne(false); err != nil {
		return err
	}

	if err := r.Wait(10); err != nil {
		return err
	}

	velRef := kmh(100)
	for _, veh := range vehicles {
		if err := applyOverrides(veh, physics.Overrides{TireFriction: physics.Float(0), Drag: physics.Float(0)}); err != nil {
			return err
		}
	}
	if err := r.Wait(1); err != nil {
		return err
	}
	for _, veh := range vehicles {
		if err := veh.SetTargetVelocity(geom.Vec3{Y: velRef}); err != nil {
			return err
		}
	}
	if err := r.Wait(1); err != nil {
		return err
	}

	readVels := func() ([]float64, error) {
		vels := []float64{velRef}
		for _, veh := range vehicles {
			v, err := velocityY(veh)
			if err != nil {
				return nil, err
			}
			vels = append(vels, v)
		}
		return vels, nil
	}

	vels, err := readVels()
	if err != nil {
		return err
	}
	if !physics.AllWithinTol(vels, 1e-3) {
		return r.Failf("%s: velocities are not equal after initialization: ref %.3f -> %v", bp.ID, velRef, vels[1:])
	}

	if err := r.Wait(200); err != nil {
		return err
	}

	vels, err = readVels()
	if err != nil {
		return err
	}
	if !physics.AllWithinTol(vels, 1e-2) {
		return r.Failf("%s: velocities are not equal after simulation: ref %.3f -> %v", bp.ID, velRef, vels[1:])
	}

	var locs []float64
	for _, veh := range vehicles {
		y, err := locationY(veh)
		if err != nil {
			return err
		}
		locs = append(locs, y)
	}
	if !physics.AllWithinTol(locs, 1e-2) {
		return r.Failf("%s: locations are not equal after simulation: %v", bp.ID, locs)
	}

	for _, veh := range vehicles {
		if err := veh.Destroy(); err != nil {
			return err
		}
	}
	return nil
}

// volFrictionValue is the tire friction the trigger volume imposes while a
// vehicle is inside it.
const volFrictionValue = 3.5

// vehicleFrictionVolume: a friction-override trigger volume must affect a
// vehicle's tire friction only while the vehicle is spatially inside its
// extent; a reference vehicle that never enters stays untouched. Measured at
// three checkpoints: before, inside, after.
func vehicleFrictionVolume(r *scenario.Run, mapName string) error {
	if err := r.World.LoadWorld(mapName); err != nil {
		return err
	}
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}
	bps = fourWheeled(bps)

	extent := geom.Vec3{X: 300.0, Y: 2000.0, Z: 700.0}

	triggerBPs, err := r.World.Blueprints("static.trigger.friction")
	if err != nil {
		return err
	}
	if len(triggerBPs) != 1 {
		return r.Failf("expected one friction trigger blueprint, got %d", len(triggerBPs))
	}
	frictionBP := triggerBPs[0]
	frictionBP.SetAttribute("friction", strconv.FormatFloat(volFrictionValue, 'f', -1, 64))
	frictionBP.SetAttribute("extent_x", strconv.FormatFloat(extent.X, 'f', -1, 64))
	frictionBP.SetAttribute("extent_y", strconv.FormatFloat(extent.Y, 'f', -1, 64))
	frictionBP.SetAttribute("extent_z", strconv.FormatFloat(extent.Z, 'f', -1, 64))

	volTransform := geom.Transform{Location: geom.Vec3{X: 27, Y: -120, Z: 1}}

	// Diagnostic only.
	if err := r.World.DebugDrawBox(volTransform.Location, extent.Scale(1e-2), volTransform.Rotation, [3]int{0, 255, 0}, 1000, 0.5); err != nil {
		return err
	}

	trigger, err := r.World.SpawnActor(frictionBP, volTransform)
	if err != nil {
		return err
	}
	r.DestroyOnExit(trigger)

	for _, bp := range bps {
		if err := checkFrictionVolume(r, bp); err != nil {
			return err
		}
	}
	return trigger.Destroy()
}

func checkFrictionVolume(r *scenario.Run, bp *simclient.Blueprint) error {
	tf := geom.Transform{
		Location: geom.Vec3{X: 36, Y: -200, Z: 1},
		Rotation: geom.Rotation{Yaw: 90},
	}

	// Reference vehicle passes beside the volume, test vehicle through it.
	ref, err := spawnVehicle(r, bp, tf)
	if err != nil {
		return err
	}
	if err := ref.SetTargetVelocity(geom.Vec3{}); err != nil {
		return err
	}
	if err := ref.SetEnableGravity(true); err != nil {
		return err
	}

	tf.Location.X -= 8
	test, err := spawnVehicle(r, bp, tf)
	if err != nil {
		return err
	}
	if err := test.SetTargetVelocity(geom.Vec3{}); err != nil {
		return err
	}
	if err := test.SetEnableGravity(true); err != nil {
		return err
	}

	if err := r.Wait(20); err != nil {
		return err
	}

	velRef := kmh(50)
	const frictionRef = 0.0
	for _, veh := range []*simclient.Actor{ref, test} {
		if err := applyOverrides(veh, physics.Overrides{TireFriction: physics.Float(frictionRef), Drag: physics.Float(0)}); err != nil {
			return err
		}
	}
	if err := r.Wait(1); err != nil {
		return err
	}
	for _, veh := range []*simclient.Actor{ref, test} {
		if err := veh.SetTargetVelocity(geom.Vec3{Y: velRef}); err != nil {
			return err
		}
	}
	if err := r.Wait(10); err != nil {
		return err
	}

	measure := func(checkpoint string) (refVel, refFr, testVel, testFr float64, err error) {
		if refVel, err = velocityY(ref); err != nil {
			return
		}
		if refFr, err = tireFriction(ref); err != nil {
			return
		}
		if testVel, err = velocityY(test); err != nil {
			return
		}
		if testFr, err = tireFriction(test); err != nil {
			return
		}
		r.Record(checkpoint, map[string]float64{
			"ref_vel": refVel, "ref_friction": refFr,
			"test_vel": testVel, "test_friction": testFr,
		})
		return
	}

	checkRef := func(where string, vel, fr float64) error {
		if !physics.EqualTol(vel, velRef, 1e-3) || !physics.EqualTol(fr, frictionRef, 1e-3) {
			return r.Failf("%s: reference vehicle has changed %s trigger: vel %.3f [%.3f], friction %.3f [%.3f]",
				bp.ID, where, vel, velRef, fr, frictionRef)
		}
		return nil
	}

	// Before trigger.
	refVel, refFr, testVel, testFr, err := measure("before")
	if err != nil {
		return err
	}
	if err := checkRef("before", refVel, refFr); err != nil {
		return err
	}
	if !physics.EqualTol(testVel, velRef, 1e-3) || !physics.EqualTol(testFr, frictionRef, 1e-3) {
		return r.Failf("%s: test vehicle has changed before trigger: vel %.3f [%.3f], friction %.3f [%.3f]",
			bp.ID, testVel, velRef, testFr, frictionRef)
	}

	if err := r.Wait(100); err != nil {
		return err
	}

	// Inside trigger.
	refVel, refFr, testVel, testFr, err = measure("inside")
	if err != nil {
		return err
	}
	if err := checkRef("inside", refVel, refFr); err != nil {
		return err
	}
	if testVel > velRef || !physics.EqualTol(testFr, volFrictionValue, 1e-3) {
		return r.Failf("%s: test vehicle is not correct inside trigger: vel %.3f [%.3f], friction %.3f [%.3f]",
			bp.ID, testVel, velRef, testFr, volFrictionValue)
	}

	if err := r.Wait(200); err != nil {
		return err
	}

	// After trigger.
	refVel, refFr, testVel, testFr, err = measure("after")
	if err != nil {
		return err
	}
	if err := checkRef("after", refVel, refFr); err != nil {
		return err
	}
	if testVel > velRef || !physics.EqualTol(testFr, frictionRef, 1e-3) {
		return r.Failf("%s: test vehicle is not correct after trigger: vel %.3f [%.3f], friction %.3f [%.3f]",
			bp.ID, testVel, velRef, testFr, frictionRef)
	}

	if err := ref.Destroy(); err != nil {
		return err
	}
	return test.Destroy()
}

// vehicleFrictionValues: braking distance must shrink as tire friction grows.
func vehicleFrictionValues(r *scenario.Run, mapName string) error {
	if err := r.World.LoadWorld(mapName); err != nil {
		return err
	}
	bps, err := r.World.Blueprints("vehicle.*")
	if err != nil {
		return err
	}
	for _, bp := range bps {
		if err := checkFrictionValues(r, bp); err != nil {
			return err
		}
	}
	return nil
}

func checkFrictionValues(r *scenario.Run, bp *simclient.Blueprint) error {
	tf := geom.Transform{
		Location: geom.Vec3{X: 36, Y: -200, Z: 0.3},
		Rotation: geom.Rotation{Yaw: 90},
	}

	frictions := []float64{0.0, 0.5, 3.0}
	var vehicles []*simclient.Actor
	for range frictions {
		veh, err := spawnVehicle(r, bp, tf)
		if err != nil {
			return err
		}
		if err := veh.SetTargetVelocity(geom.Vec3{}); err != nil {
			return err
		}
		vehicles = append(vehicles, veh)
		tf.Location.X -= 4
	}

	if err := r.Wait(10); err != nil {
		return err
	}

	velRef := kmh(100)
	for i, veh := range vehicles {
		if err := applyOverrides(veh, physics.Overrides{TireFriction: physics.Float(frictions[i]), Drag: physics.Float(0)}); err != nil {
			return err
		}
	}
	if err := r.Wait(1); err != nil {
		return err
	}
	for _, veh := range vehicles {
		if err := veh.SetTargetVelocity(geom.Vec3{Y: velRef}); err != nil {
			return err
		}
	}
	if err := r.Wait(50); err != nil {
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

	// Full braking, re-sent every tick.
	for i := 0; i < 300; i++ {
		if err := r.Wait(1); err != nil {
			return err
		}
		for _, veh := range vehicles {
			if err := veh.ApplyControl(simclient.VehicleControl{Brake: 1.0}); err != nil {
				return err
			}
		}
	}

	dist := make([]float64, len(vehicles))
	for i, veh := range vehicles {
		y, err := locationY(veh)
		if err != nil {
			return err
		}
		dist[i] = y - start[i]
	}
	r.Record("braking", map[string]float64{
		"dist_f0": dist[0], "dist_f05": dist[1], "dist_f3": dist[2],
	})

	// The zero-friction vehicle's velocity retention under braking is
	// deliberately left unchecked until vehicle content stabilizes.
	if dist[1] > 0.75*dist[0] || dist[2] > 0.75*dist[1] {
		return r.Failf("%s: braking distances do not shrink with friction: %s",
			bp.ID, fmt.Sprintf("f=0.0 %.2fm, f=0.5 %.2fm, f=3.0 %.2fm", dist[0], dist[1], dist[2]))
	}

	for _, veh := range vehicles {
		if err := veh.Destroy(); err != nil {
			return err
		}
	}
	return nil
}
